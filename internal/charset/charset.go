// Package charset holds the target alphabet a Mode transcribes into: named
// real Characters (font code + optional Unicode code point) and named
// VirtualChars that resolve contextually during postprocessing. A Charset
// owns both; the rest of the pipeline carries only names, never pointers,
// so the token stream stays a cheap, serializable value.
package charset

import "fmt"

// Charset is the registry of Characters and VirtualChars for one target
// alphabet (e.g. "tengwar-sindarin").
type Charset struct {
	Name string

	chars    map[string]*Character
	virtuals map[string]*VirtualChar

	// order preserves declaration order for deterministic iteration (e.g.
	// when dumping a charset for diagnostics).
	order []string
}

// New creates an empty Charset with the given name.
func New(name string) *Charset {
	return &Charset{
		Name:     name,
		chars:    make(map[string]*Character),
		virtuals: make(map[string]*VirtualChar),
	}
}

// AddCharacter registers a real Character. It is an error to register a
// name that already exists in this Charset, as either a Character or a
// VirtualChar.
func (c *Charset) AddCharacter(ch Character) error {
	if err := c.checkNameFree(ch.Name); err != nil {
		return err
	}
	cc := ch
	c.chars[ch.Name] = &cc
	c.order = append(c.order, ch.Name)
	return nil
}

// AddVirtual registers a VirtualChar. It is an error to register a name
// that already exists in this Charset.
func (c *Charset) AddVirtual(vc VirtualChar) error {
	if err := c.checkNameFree(vc.Name); err != nil {
		return err
	}
	vcc := vc
	c.virtuals[vc.Name] = &vcc
	c.order = append(c.order, vc.Name)
	return nil
}

func (c *Charset) checkNameFree(name string) error {
	if _, ok := c.chars[name]; ok {
		return fmt.Errorf("charset %q: character %q already defined", c.Name, name)
	}
	if _, ok := c.virtuals[name]; ok {
		return fmt.Errorf("charset %q: virtual %q already defined", c.Name, name)
	}
	return nil
}

// Character looks up a real Character by name.
func (c *Charset) Character(name string) (*Character, bool) {
	ch, ok := c.chars[name]
	return ch, ok
}

// Virtual looks up a VirtualChar by name.
func (c *Charset) Virtual(name string) (*VirtualChar, bool) {
	vc, ok := c.virtuals[name]
	return vc, ok
}

// Has reports whether name refers to either a Character or a VirtualChar.
func (c *Charset) Has(name string) bool {
	if _, ok := c.chars[name]; ok {
		return true
	}
	_, ok := c.virtuals[name]
	return ok
}

// Names returns every registered name (Characters and VirtualChars) in
// declaration order.
func (c *Charset) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
