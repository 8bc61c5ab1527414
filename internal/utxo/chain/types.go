package chain

// Page bounds a slice of a block's transaction list.
type Page struct {
	Number int
	Size   int
}

// Bounds returns the [start, end) indexes of the page within total items.
func (p Page) Bounds(total int) (int, int) {
	start := p.Number * p.Size
	if start > total {
		start = total
	}
	end := start + p.Size
	if end > total {
		end = total
	}
	return start, end
}
