package dialog

// Page is an in-memory Document: the set of mounted element ids and the one
// that has focus. Focusing an element that is not mounted does nothing.
type Page struct {
	active  string
	mounted map[string]bool
}

func NewPage(ids ...string) *Page {
	p := &Page{mounted: map[string]bool{}}
	p.Mount(ids...)
	return p
}

func (p *Page) Mount(ids ...string) {
	for _, id := range ids {
		if id != "" {
			p.mounted[id] = true
		}
	}
}

// Unmount removes ids; if one had focus, focus is lost.
func (p *Page) Unmount(ids ...string) {
	for _, id := range ids {
		delete(p.mounted, id)
		if p.active == id {
			p.active = ""
		}
	}
}

func (p *Page) ActiveElement() string { return p.active }

func (p *Page) Focus(id string) {
	if p.mounted[id] {
		p.active = id
	}
}

func (p *Page) Blur() { p.active = "" }

func (p *Page) Contains(id string) bool { return p.mounted[id] }
