package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Gender пол голоса, как в справочнике Cloud TTS.
type Gender string

const (
	Male    Gender = "male"
	Female  Gender = "female"
	Neutral Gender = "neutral"
)

// VoiceProfile описание одного синтетического голоса.
type VoiceProfile struct {
	ID          string `yaml:"id"` // Техническое имя голоса Gemini
	DisplayName string `yaml:"display_name"`
	Gender      Gender `yaml:"gender"`
	AvatarURL   string `yaml:"avatar_url"`
	Description string `yaml:"description"`
}

// Catalog неизменяемый после загрузки список голосов.
type Catalog struct {
	voices []VoiceProfile
	byID   map[string]int
}

type document struct {
	Voices []VoiceProfile `yaml:"voices"`
}

//go:embed voices.yaml
var embedded []byte

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default возвращает встроенный каталог. Ошибка разбора встроенных данных, ошибка сборки, поэтому panic.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic(fmt.Errorf("catalog: embedded voices: %w", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load разбирает YAML со списком голосов.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(doc.Voices) == 0 {
		return nil, errors.New("catalog: no voices")
	}

	c := &Catalog{voices: make([]VoiceProfile, 0, len(doc.Voices)), byID: make(map[string]int, len(doc.Voices))}
	for i, v := range doc.Voices {
		v.ID = strings.TrimSpace(v.ID)
		if v.ID == "" {
			return nil, fmt.Errorf("catalog: voice #%d has empty id", i)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate voice id %q", v.ID)
		}
		v.Gender = Gender(strings.ToLower(string(v.Gender)))
		switch v.Gender {
		case Male, Female, Neutral:
		default:
			return nil, fmt.Errorf("catalog: voice %q: unknown gender %q", v.ID, v.Gender)
		}
		if strings.TrimSpace(v.DisplayName) == "" {
			v.DisplayName = v.ID
		}
		c.byID[v.ID] = len(c.voices)
		c.voices = append(c.voices, v)
	}
	return c, nil
}

// All возвращает копию списка в исходном порядке.
func (c *Catalog) All() []VoiceProfile {
	out := make([]VoiceProfile, len(c.voices))
	copy(out, c.voices)
	return out
}

func (c *Catalog) Len() int { return len(c.voices) }

func (c *Catalog) ByID(id string) (VoiceProfile, bool) {
	i, ok := c.byID[id]
	if !ok {
		return VoiceProfile{}, false
	}
	return c.voices[i], true
}

// FirstByGender первый голос нужного пола; используется для начального выбора дуэта.
func (c *Catalog) FirstByGender(g Gender) (VoiceProfile, bool) {
	for _, v := range c.voices {
		if v.Gender == g {
			return v, true
		}
	}
	return VoiceProfile{}, false
}

// Filter фильтр выбора голоса по полу. Пустой пол, все голоса.
func (c *Catalog) Filter(g Gender) []VoiceProfile {
	if g == "" {
		return c.All()
	}
	out := make([]VoiceProfile, 0, len(c.voices))
	for _, v := range c.voices {
		if v.Gender == g {
			out = append(out, v)
		}
	}
	return out
}

// DisplayName отображаемое имя голоса или fallback, если ID неизвестен.
func (c *Catalog) DisplayName(id, fallback string) string {
	if v, ok := c.ByID(id); ok {
		return v.DisplayName
	}
	return fallback
}

// Next голос, следующий за id в отфильтрованном списке (по кругу). Нужен для переключения в UI.
func (c *Catalog) Next(id string, g Gender, step int) string {
	list := c.Filter(g)
	if len(list) == 0 {
		return id
	}
	pos := -1
	for i, v := range list {
		if v.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		if step < 0 {
			return list[len(list)-1].ID
		}
		return list[0].ID
	}
	n := len(list)
	return list[((pos+step)%n+n)%n].ID
}
