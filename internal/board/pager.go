package board

// DefaultPageSize is the number of cards shown per column page.
const DefaultPageSize = 5

// Pager windows a list client-side. The page goes back to 1 whenever the
// search text or the number of items changes.
type Pager struct {
	size   int
	page   int
	total  int
	search string
}

func NewPager(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size, page: 1}
}

// Sync updates the pager to the current search and item count.
func (p *Pager) Sync(search string, total int) {
	if search != p.search || total != p.total {
		p.page = 1
	}
	p.search = search
	p.total = total
	p.clamp()
}

func (p *Pager) Page() int {
	return p.page
}

// TotalPages is ceil(total/size), and at least 1.
func (p *Pager) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

func (p *Pager) Next() {
	p.page++
	p.clamp()
}

func (p *Pager) Prev() {
	p.page--
	p.clamp()
}

func (p *Pager) First() { p.page = 1 }

func (p *Pager) Last() { p.page = p.TotalPages() }

func (p *Pager) clamp() {
	if p.page > p.TotalPages() {
		p.page = p.TotalPages()
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Bounds returns the [start, end) slice indexes of the current page.
func (p *Pager) Bounds() (int, int) {
	start := (p.page - 1) * p.size
	if start > p.total {
		start = p.total
	}
	end := start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

// Window returns the current page of items.
func Window[T any](p *Pager, items []T) []T {
	p.Sync(p.search, len(items))
	start, end := p.Bounds()
	return items[start:end]
}
