package joborders

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

var ErrUnknownPreset = errors.New("unknown job order preset")

// Preset is a saved set of job-order list criteria. Values in an explicit
// request filter win over the preset.
type Preset struct {
	Description  string   `toml:"description"`
	Search       string   `toml:"search"`
	ServiceTypes []string `toml:"service_types"`
	Statuses     []string `toml:"statuses"`
	CreatedFrom  string   `toml:"created_from"`
	CreatedTo    string   `toml:"created_to"`
	OnlyArchived bool     `toml:"only_archived"`
	SortBy       string   `toml:"sort_by"`
	SortDesc     bool     `toml:"sort_desc"`
}

type Presets map[string]Preset

type presetFile struct {
	Version int               `toml:"version"`
	Presets map[string]Preset `toml:"presets"`
}

// LoadPresets reads a presets file. A missing file yields no presets.
func LoadPresets(path string) (Presets, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Presets{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Presets{}, nil
		}
		return nil, errs.Wrapf(err, "read presets file %s", path)
	}
	return ParsePresets(raw)
}

func ParsePresets(raw []byte) (Presets, error) {
	var file presetFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, errs.Wrap(err, "decode presets")
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported presets version %d: expected version = 1", file.Version)
	}

	out := make(Presets, len(file.Presets))
	for name, preset := range file.Presets {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, errors.New("preset name is required")
		}
		if err := validatePreset(preset); err != nil {
			return nil, fmt.Errorf("presets.%s: %w", key, err)
		}
		out[key] = preset
	}
	return out, nil
}

func validatePreset(p Preset) error {
	for _, raw := range p.ServiceTypes {
		if _, err := joborder.ParseServiceType(raw); err != nil {
			return err
		}
	}
	for _, raw := range p.Statuses {
		if _, err := joborder.ParseStatus(raw); err != nil {
			return err
		}
	}
	return nil
}

func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge fills the empty fields of f from the preset.
func (p Preset) Merge(f ports.JobOrderFilter) ports.JobOrderFilter {
	if strings.TrimSpace(f.Search) == "" {
		f.Search = p.Search
	}
	if len(f.ServiceTypes) == 0 {
		f.ServiceTypes = append([]string(nil), p.ServiceTypes...)
	}
	if len(f.Statuses) == 0 {
		f.Statuses = append([]string(nil), p.Statuses...)
	}
	if f.Created.Empty() {
		f.Created = ports.DateRange{From: p.CreatedFrom, To: p.CreatedTo}
	}
	if !f.OnlyArchived {
		f.OnlyArchived = p.OnlyArchived
	}
	if strings.TrimSpace(f.Sort.Field) == "" {
		f.Sort = ports.Sort{Field: p.SortBy, Desc: p.SortDesc}
	}
	return f
}

// ApplyPreset merges a named preset into f. An empty name returns f as is.
func (s *Service) ApplyPreset(name string, f ports.JobOrderFilter) (ports.JobOrderFilter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return f, nil
	}
	s.presetsMu.RLock()
	preset, ok := s.presets[key]
	s.presetsMu.RUnlock()
	if !ok {
		return f, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset.Merge(f), nil
}

func (s *Service) Presets() Presets {
	s.presetsMu.RLock()
	defer s.presetsMu.RUnlock()
	return s.presets
}
