package encounter

import (
	"fmt"
	"io"
	"os"

	"github.com/dimchansky/utfbom"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes the event in its externally tagged form, {"Apply":t}.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case Apply:
		return json.Marshal(map[string]int64{"Apply": e.Time})
	case Remove:
		return json.Marshal(map[string]int64{"Remove": e.Time})
	default:
		return nil, fmt.Errorf("unknown event kind %d", e.Kind)
	}
}

// UnmarshalJSON decodes {"Apply":t} or {"Remove":t}.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding buff event: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("buff event must have exactly one key, got %d", len(raw))
	}
	for k, t := range raw {
		switch k {
		case "Apply":
			*e = ApplyAt(t)
		case "Remove":
			*e = RemoveAt(t)
		default:
			return fmt.Errorf("unknown buff event %q", k)
		}
	}
	return nil
}

// fileLayout is the on-disk encounter layout, with the window flattened into
// top-level start/end fields.
type fileLayout struct {
	Start      int64                    `json:"start"`
	End        int64                    `json:"end"`
	Casts      []Cast                   `json:"casts"`
	Buffs      map[uint32][]Event       `json:"buffs"`
	Skills     map[uint32]SkillMetadata `json:"skill_metadata,omitempty"`
	SkillNames map[uint32]string        `json:"skills,omitempty"`
}

// Decode reads an encounter from r. A leading UTF byte order mark is ignored.
func Decode(r io.Reader) (*Encounter, error) {
	var raw fileLayout
	if err := json.NewDecoder(utfbom.SkipOnly(r)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding encounter: %w", err)
	}

	enc := &Encounter{
		Window:     Window{Start: raw.Start, End: raw.End},
		Casts:      raw.Casts,
		Buffs:      raw.Buffs,
		Skills:     raw.Skills,
		SkillNames: raw.SkillNames,
	}
	if enc.Buffs == nil {
		enc.Buffs = make(map[uint32][]Event)
	}
	if enc.Skills == nil {
		enc.Skills = make(map[uint32]SkillMetadata)
	}
	Normalize(enc)
	return enc, nil
}

// Load reads an encounter file.
func Load(path string) (*Encounter, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided encounter path is expected
	if err != nil {
		return nil, fmt.Errorf("opening encounter file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// LoadSkills reads a skill metadata file: a JSON object keyed by skill id.
func LoadSkills(path string) (map[uint32]SkillMetadata, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided skills path is expected
	if err != nil {
		return nil, fmt.Errorf("opening skills file: %w", err)
	}
	defer f.Close()

	skills := make(map[uint32]SkillMetadata)
	if err := json.NewDecoder(utfbom.SkipOnly(f)).Decode(&skills); err != nil {
		return nil, fmt.Errorf("decoding skills file: %w", err)
	}
	return skills, nil
}

// MergeSkills copies metadata into the encounter. Existing entries win.
func (e *Encounter) MergeSkills(skills map[uint32]SkillMetadata) {
	if e.Skills == nil {
		e.Skills = make(map[uint32]SkillMetadata, len(skills))
	}
	for id, m := range skills {
		if _, ok := e.Skills[id]; !ok {
			e.Skills[id] = m
		}
	}
}
