package domain

// Column is an ordered bucket of items representing one workflow stage.
// Count mirrors len(Items) after every completed mutation.
type Column struct {
	ID    string
	Title string
	Count int
	Items []*Item
}

func (c *Column) insert(pos int, it *Item) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.Items) {
		pos = len(c.Items)
	}
	c.Items = append(c.Items, nil)
	copy(c.Items[pos+1:], c.Items[pos:])
	c.Items[pos] = it
	c.Count = len(c.Items)
}

func (c *Column) removeAt(pos int) *Item {
	if pos < 0 || pos >= len(c.Items) {
		return nil
	}
	it := c.Items[pos]
	c.Items = append(c.Items[:pos], c.Items[pos+1:]...)
	c.Count = len(c.Items)
	return it
}

func (c *Column) indexOf(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
