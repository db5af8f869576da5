// Package catalog loads the embedded translation files and registers them
// with golang.org/x/text/message.
//
// Files live at locales/<locale>/<namespace>.yaml and hold a flat messages
// map. Every key is prefixed with its namespace
// ("site.hero.cta" lives in site.yaml).
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embedded embed.FS

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	locales map[string]map[string]string
}

type file struct {
	locale    string
	namespace string
	messages  map[string]string
}

// Embedded loads the catalogs compiled into the binary.
func Embedded() (*Catalog, error) {
	return Load(embedded)
}

// Load reads every locales/*/*.yaml file of fsys. The base locale must be
// present and a key may be defined only once per locale.
func Load(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		f, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, f); err != nil {
			return nil, err
		}
	}
	if _, ok := c.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s has no catalog", BaseLocale)
	}
	return c, nil
}

func (c *Catalog) add(p string, f file) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if f.locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q does not match directory %q", p, f.locale, dirLocale)
	}
	if f.namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q does not match file name %q", p, f.namespace, fileNamespace)
	}

	messages, ok := c.locales[f.locale]
	if !ok {
		messages = map[string]string{}
		c.locales[f.locale] = messages
	}
	for key, value := range f.messages {
		if !strings.HasPrefix(key, f.namespace+".") {
			return fmt.Errorf("catalog %s: key %q outside namespace %q", p, key, f.namespace)
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q", p, key)
		}
		messages[key] = value
	}
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Tags returns the loaded locales as language tags, base locale first.
func (c *Catalog) Tags() []language.Tag {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range c.Locales() {
		if locale != BaseLocale {
			tags = append(tags, language.MustParse(locale))
		}
	}
	return tags
}

// Lookup returns the message for key in locale, falling back to the base
// locale.
func (c *Catalog) Lookup(locale, key string) (string, bool) {
	if value, ok := c.locales[locale][key]; ok {
		return value, true
	}
	value, ok := c.locales[BaseLocale][key]
	return value, ok
}

// Keys returns the keys defined for locale, sorted.
func (c *Catalog) Keys(locale string) []string {
	keys := make([]string, 0, len(c.locales[locale]))
	for key := range c.locales[locale] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Register installs every message into the x/text default catalog, for the
// locale tag and for its base language. Keys missing from a locale are
// registered with the base locale value.
func (c *Catalog) Register() error {
	baseKeys := c.Keys(BaseLocale)
	for _, locale := range c.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag.String() != tag.String() {
				tags = append(tags, baseTag)
			}
		}
		for _, key := range baseKeys {
			value, _ := c.Lookup(locale, key)
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

func parse(data []byte) (file, error) {
	var raw struct {
		Locale    string            `yaml:"locale"`
		Namespace string            `yaml:"namespace"`
		Messages  map[string]string `yaml:"messages"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return file{}, err
	}
	f := file{
		locale:    strings.TrimSpace(raw.Locale),
		namespace: strings.TrimSpace(raw.Namespace),
		messages:  make(map[string]string, len(raw.Messages)),
	}
	if f.locale == "" || f.namespace == "" {
		return file{}, fmt.Errorf("locale and namespace are required")
	}
	if len(raw.Messages) == 0 {
		return file{}, fmt.Errorf("no messages")
	}
	for key, value := range raw.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return file{}, fmt.Errorf("blank message key")
		}
		f.messages[key] = value
	}
	return f, nil
}
