package api

import (
	"strconv"
	"testing"

	"workboard-api/domain"
)

func TestFinalizeCommandsSequentialTimestamps(t *testing.T) {
	cmds := make([]domain.Command, 5)
	keys := finalizeCommands(cmds)

	if len(keys) != len(cmds) {
		t.Fatalf("expected %d keys, got %d", len(cmds), len(keys))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i].Timestamp <= cmds[i-1].Timestamp {
			t.Fatalf("timestamps not strictly increasing at %d: %d then %d", i, cmds[i-1].Timestamp, cmds[i].Timestamp)
		}
	}
	for i, cmd := range cmds {
		want := strconv.FormatInt(cmd.Timestamp, 36)
		if cmd.IdempotencyKey != want {
			t.Fatalf("command %d: derived key %q, want %q", i, cmd.IdempotencyKey, want)
		}
		if cmd.ID != cmd.IdempotencyKey {
			t.Fatalf("command %d: id %q diverges from key %q", i, cmd.ID, cmd.IdempotencyKey)
		}
		if keys[i] != cmd.IdempotencyKey {
			t.Fatalf("command %d: returned key %q, want %q", i, keys[i], cmd.IdempotencyKey)
		}
	}
}

func TestFinalizeCommandsKeepsClientKeys(t *testing.T) {
	cmds := []domain.Command{
		{IdempotencyKey: "client-chosen"},
		{},
	}
	keys := finalizeCommands(cmds)

	if keys[0] != "client-chosen" {
		t.Fatalf("client key replaced: %q", keys[0])
	}
	if cmds[0].ID != "client-chosen" {
		t.Fatalf("id not aligned with client key: %q", cmds[0].ID)
	}
	if keys[1] == "" || keys[1] == "client-chosen" {
		t.Fatalf("second command needs its own derived key, got %q", keys[1])
	}
}
