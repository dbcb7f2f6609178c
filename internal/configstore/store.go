// Package configstore reads and edits the INI-style configuration files of
// the engine: consoles, emulators, per-game environment and database schema.
package configstore

import (
	"bytes"
	"os"
	"strings"

	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
	"gopkg.in/ini.v1"
)

// ListSeparator joins multi-valued options such as extensions and ignores
const ListSeparator = ";"

var loadOptions = ini.LoadOptions{
	// Argument templates and regexes can legitimately hold ; and #
	IgnoreInlineComment: true,
	// "<rom_file>" keeps its quotes for the command tokenizer
	PreserveSurroundedQuote: true,
	KeyValueDelimiters:      "=",
}

// Store is an in-memory copy of one configuration file
type Store struct {
	path string
	file *ini.File
}

// Load reads the file at path. A missing file gives an empty store that will
// be created on Save.
func Load(path string) (store *Store, err error) {
	store = &Store{path: path}
	if err = store.Reload(); err != nil {
		return nil, err
	}
	return
}

// Parse reads a configuration from memory. The store has no path and cannot
// be saved.
func Parse(data []byte) (*Store, error) {
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, errors.Wrap(errors.KindConfigInvalid, "parse configuration", "", err)
	}
	return &Store{file: file}, nil
}

// Reload replaces the in-memory state with the content of the file on disk
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.file = ini.Empty(loadOptions)
		return nil
	} else if err != nil {
		return errors.Wrap(errors.KindConfigInvalid, "read configuration", s.path, err)
	}
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return errors.Wrap(errors.KindConfigInvalid, "parse configuration", s.path, err)
	}
	s.file = file
	return nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Save writes the in-memory state back to disk atomically
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New(errors.KindConfigInvalid, "save configuration", "no path")
	}
	var buffer bytes.Buffer
	if _, err := s.file.WriteTo(&buffer); err != nil {
		return errors.Wrap(errors.KindConfigInvalid, "encode configuration", s.path, err)
	}
	return utils.WriteFileAtomic(s.path, buffer.Bytes(), 0644)
}

func (s *Store) section(name string) *ini.Section {
	if name == ini.DefaultSection {
		return nil
	}
	section, err := s.file.GetSection(name)
	if err != nil {
		return nil
	}
	return section
}

// Sections lists the section names in file order
func (s *Store) Sections() (names []string) {
	for _, name := range s.file.SectionStrings() {
		if name != ini.DefaultSection {
			names = append(names, name)
		}
	}
	return
}

// HasSection reports whether the section exists
func (s *Store) HasSection(section string) bool {
	return s.section(section) != nil
}

// Has reports whether key exists in section
func (s *Store) Has(section, key string) bool {
	if sec := s.section(section); sec != nil {
		return sec.HasKey(key)
	}
	return false
}

// Get returns the value of key in section
func (s *Store) Get(section, key string) (string, bool) {
	sec := s.section(section)
	if sec == nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).Value(), true
}

// GetBool reads a yes/no option, returning fallback when absent or unreadable
func (s *Store) GetBool(section, key string, fallback bool) bool {
	value, ok := s.Get(section, key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	}
	return fallback
}

// GetList reads a ; separated option, dropping empty items
func (s *Store) GetList(section, key string) (items []string) {
	value, _ := s.Get(section, key)
	for _, item := range strings.Split(value, ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return
}

// Set stores value under key, creating the section if needed
func (s *Store) Set(section, key, value string) {
	s.file.Section(section).Key(key).SetValue(value)
}

// SetBool stores a boolean as yes or no
func (s *Store) SetBool(section, key string, value bool) {
	if value {
		s.Set(section, key, "yes")
	} else {
		s.Set(section, key, "no")
	}
}

// SetList stores items joined by ;
func (s *Store) SetList(section, key string, items []string) {
	s.Set(section, key, strings.Join(items, ListSeparator))
}

// RemoveOption deletes key from section
func (s *Store) RemoveOption(section, key string) {
	if sec := s.section(section); sec != nil {
		sec.DeleteKey(key)
	}
}

// AddSection creates an empty section
func (s *Store) AddSection(section string) error {
	if s.HasSection(section) {
		return errors.New(errors.KindDuplicateIdentifier, "add section", section)
	}
	_, err := s.file.NewSection(section)
	return errors.Wrap(errors.KindConfigInvalid, "add section", section, err)
}

// RemoveSection deletes a section and its options, reporting whether it existed
func (s *Store) RemoveSection(section string) bool {
	if !s.HasSection(section) {
		return false
	}
	s.file.DeleteSection(section)
	return true
}

// Options lists the keys of section in file order
func (s *Store) Options(section string) []string {
	if sec := s.section(section); sec != nil {
		return sec.KeyStrings()
	}
	return nil
}

// Items returns the key/value pairs of section
func (s *Store) Items(section string) map[string]string {
	if sec := s.section(section); sec != nil {
		return sec.KeysHash()
	}
	return nil
}

// MergeMissing copies every section and option of from that the store does
// not have yet. Existing values are never overwritten. It returns the number
// of options copied.
func (s *Store) MergeMissing(from *Store) (merged int) {
	for _, section := range from.Sections() {
		if !s.HasSection(section) {
			s.file.Section(section)
		}
		for _, key := range from.Options(section) {
			if s.Has(section, key) {
				continue
			}
			value, _ := from.Get(section, key)
			s.Set(section, key, value)
			merged++
		}
	}
	return
}
