// Package registry loads a bundle of mode and charset files from a
// directory described by a TOML manifest, the way tqw loads a game world
// from a manifest of TQW files — except a glaemscribe bundle never nests
// manifests inside manifests, since the set of modes in a bundle is flat.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/modefile"

	glaemscribe "github.com/glaemscribe/glaemscribe-go"
)

// manifest is the on-disk shape of modes.toml.
type manifest struct {
	Charset []charsetEntry `toml:"charset"`
	Mode    []modeEntry    `toml:"mode"`
}

type charsetEntry struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

type modeEntry struct {
	Name    string `toml:"name"`
	Charset string `toml:"charset"`
	File    string `toml:"file"`
}

// ModeInfo is the summary of one mode exposed by List, before it has been
// loaded and parsed.
type ModeInfo struct {
	Name     string
	Language string
	Writing  string
	Charset  string
}

// Bundle is a directory of mode and charset files described by a
// modes.toml manifest. It is safe for concurrent use; parsed charsets are
// cached after first load, while every Mode call reads and parses its mode
// file again.
type Bundle struct {
	baseDir string
	man     manifest

	mu        sync.RWMutex
	charsets  map[string]*charset.Charset
	modeInfos []ModeInfo
	modeByKey map[string]modeEntry
}

// Load reads a bundle's modes.toml manifest from dir and returns a Bundle
// ready to serve ModeInfo summaries and individual Mode loads.
func Load(dir string) (*Bundle, error) {
	manifestPath := filepath.Join(dir, "modes.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("registry: reading manifest: %w", err)
	}

	var man manifest
	if _, err := toml.Decode(string(data), &man); err != nil {
		return nil, fmt.Errorf("registry: parsing manifest %s: %w", manifestPath, err)
	}

	b := &Bundle{
		baseDir:   dir,
		man:       man,
		charsets:  make(map[string]*charset.Charset),
		modeByKey: make(map[string]modeEntry),
	}

	charsetNames := make(map[string]string, len(man.Charset))
	for _, c := range man.Charset {
		if c.Name == "" || c.File == "" {
			return nil, fmt.Errorf("registry: charset entry missing name or file in %s", manifestPath)
		}
		charsetNames[c.Name] = c.File
	}

	for _, m := range man.Mode {
		if m.Name == "" || m.File == "" || m.Charset == "" {
			return nil, fmt.Errorf("registry: mode entry missing name, file, or charset in %s", manifestPath)
		}
		if _, ok := charsetNames[m.Charset]; !ok {
			return nil, fmt.Errorf("registry: mode %q references undeclared charset %q", m.Name, m.Charset)
		}
		b.modeByKey[m.Name] = m
	}

	for _, m := range man.Mode {
		b.modeInfos = append(b.modeInfos, ModeInfo{Name: m.Name, Charset: m.Charset})
	}
	sort.Slice(b.modeInfos, func(i, j int) bool { return b.modeInfos[i].Name < b.modeInfos[j].Name })

	return b, nil
}

// List returns a summary of every mode declared in the manifest, sorted by
// name. Language and Writing are filled in only once the corresponding
// mode has actually been parsed (by an earlier or concurrent Mode call);
// until then they are empty strings, since reading every mode file just to
// answer List would defeat lazy loading.
func (b *Bundle) List() []ModeInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ModeInfo, len(b.modeInfos))
	copy(out, b.modeInfos)
	return out
}

// ModeNames returns the declared mode names, sorted.
func (b *Bundle) ModeNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, len(b.modeInfos))
	for i, mi := range b.modeInfos {
		names[i] = mi.Name
	}
	return names
}

// Mode parses and returns the unfinalized Mode registered under name. The
// caller is responsible for calling Finalize with whatever options it
// wants before transcribing. Charset files are parsed once and shared
// across every mode that references them.
func (b *Bundle) Mode(name string) (*glaemscribe.Mode, error) {
	b.mu.Lock()
	entry, ok := b.modeByKey[name]
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("registry: no such mode %q", name)
	}
	charsetFile := ""
	for _, c := range b.man.Charset {
		if c.Name == entry.Charset {
			charsetFile = c.File
			break
		}
	}
	b.mu.Unlock()

	cs, err := b.loadCharset(entry.Charset, charsetFile)
	if err != nil {
		return nil, err
	}

	modePath := filepath.Join(b.baseDir, entry.File)
	modeData, err := os.ReadFile(modePath)
	if err != nil {
		return nil, fmt.Errorf("registry: reading mode file %s: %w", modePath, err)
	}

	src, err := modefile.ParseMode(modePath, string(modeData))
	if err != nil {
		return nil, fmt.Errorf("registry: parsing mode %q: %w", name, err)
	}

	m, err := glaemscribe.NewMode(name, src, cs)
	if err != nil {
		return nil, fmt.Errorf("registry: building mode %q: %w", name, err)
	}

	b.mu.Lock()
	for i, mi := range b.modeInfos {
		if mi.Name == name {
			b.modeInfos[i].Language = src.Language
			b.modeInfos[i].Writing = src.Writing
		}
	}
	b.mu.Unlock()

	return m, nil
}

func (b *Bundle) loadCharset(name, file string) (*charset.Charset, error) {
	b.mu.RLock()
	cs, ok := b.charsets[name]
	b.mu.RUnlock()
	if ok {
		return cs, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if cs, ok := b.charsets[name]; ok {
		return cs, nil
	}

	path := filepath.Join(b.baseDir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: reading charset file %s: %w", path, err)
	}

	cs, err = modefile.ParseCharset(path, name, string(data))
	if err != nil {
		return nil, fmt.Errorf("registry: parsing charset %q: %w", name, err)
	}

	b.charsets[name] = cs
	return cs, nil
}
