// Package locale holds the portal's translated text. Every screen renders
// from the same bundle; only the selected language differs.
package locale

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFS embed.FS

// Bundle maps languages to their message catalogs.
type Bundle struct {
	supported []language.Tag
	catalogs  map[language.Tag]map[string]string
	matcher   language.Matcher
	fallback  language.Tag
}

// Load reads the embedded catalogs. fallback names the language used when
// nothing better matches; it must be one of the embedded ones.
func Load(fallback string) (*Bundle, error) {
	entries, err := messageFS.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("read message catalogs: %w", err)
	}

	b := &Bundle{catalogs: make(map[language.Tag]map[string]string)}
	for _, e := range entries {
		name := e.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		raw, err := messageFS.ReadFile("messages/" + name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var msgs map[string]string
		if err := yaml.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		b.catalogs[tag] = msgs
		b.supported = append(b.supported, tag)
	}

	fb, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback locale: %w", err)
	}
	if _, ok := b.catalogs[fb]; !ok {
		return nil, fmt.Errorf("fallback locale %q has no catalog", fallback)
	}
	b.fallback = fb

	// the matcher prefers its first entry on ties, so list the fallback first
	ordered := []language.Tag{fb}
	for _, t := range b.supported {
		if t != fb {
			ordered = append(ordered, t)
		}
	}
	b.supported = ordered
	b.matcher = language.NewMatcher(ordered)
	return b, nil
}

// MustLoad is Load for package initialization and tests.
func MustLoad(fallback string) *Bundle {
	b, err := Load(fallback)
	if err != nil {
		panic(err)
	}
	return b
}

// Languages lists the supported languages, fallback first.
func (b *Bundle) Languages() []language.Tag {
	return append([]language.Tag(nil), b.supported...)
}

// Fallback returns the localizer for the default language.
func (b *Bundle) Fallback() Localizer {
	return b.For(b.fallback)
}

// Match picks the best supported language for the given preferences, in
// priority order. Each preference may be a plain tag ("es") or a whole
// Accept-Language header. Empty or unparsable preferences are skipped.
func (b *Bundle) Match(prefs ...string) language.Tag {
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := b.matcher.Match(tags...)
		if conf != language.No {
			return b.supported[idx]
		}
	}
	return b.fallback
}

// For returns the localizer for tag, falling back when tag is unsupported.
func (b *Bundle) For(tag language.Tag) Localizer {
	msgs, ok := b.catalogs[tag]
	if !ok {
		tag = b.fallback
		msgs = b.catalogs[tag]
	}
	return Localizer{tag: tag, msgs: msgs, fallback: b.catalogs[b.fallback]}
}

// Localizer renders messages in one language.
type Localizer struct {
	tag      language.Tag
	msgs     map[string]string
	fallback map[string]string
}

// Lang returns the BCP 47 tag, e.g. "es".
func (l Localizer) Lang() string { return l.tag.String() }

// T returns the message for key, formatted with args when given. Missing
// keys fall back to the default language and then to the key itself.
func (l Localizer) T(key string, args ...any) string {
	msg, ok := l.msgs[key]
	if !ok {
		msg, ok = l.fallback[key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key exists in this language's own catalog.
func (l Localizer) Has(key string) bool {
	_, ok := l.msgs[key]
	return ok
}

// FieldLabel returns the label of an indicator field, as stored under
// "field.<key>".
func (l Localizer) FieldLabel(key string) (string, bool) {
	k := "field." + key
	if msg, ok := l.msgs[k]; ok {
		return msg, true
	}
	msg, ok := l.fallback[k]
	return msg, ok
}
