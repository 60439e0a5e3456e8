package curriculum

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"course-studio/internal/domain"
	"course-studio/internal/mappers"
)

// The YAML authoring format lets an instructor draft a curriculum offline
// and push it in one go. Only authorable fields appear; ids, thumbnails and
// resources are service-owned and never round-trip through YAML.

type yamlCourse struct {
	Title    string        `yaml:"title"`
	Status   string        `yaml:"status"`
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Name     string        `yaml:"name"`
	Lectures []yamlLecture `yaml:"lectures"`
}

type yamlLecture struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`
	Duration    int    `yaml:"duration,omitempty"`
	Preview     bool   `yaml:"preview,omitempty"`
}

// WriteYAML exports the course tree to an authoring file.
func WriteYAML(path string, c domain.Course) error {
	out := yamlCourse{Title: c.Title, Status: c.Status}
	for _, u := range c.Units {
		ys := yamlSection{Name: u.Name}
		for _, t := range u.Topics {
			ys.Lectures = append(ys.Lectures, yamlLecture{
				Name:        t.Name,
				Type:        t.Type,
				Description: t.Description,
				Duration:    t.Duration,
				Preview:     t.IsPreview,
			})
		}
		out.Sections = append(out.Sections, ys)
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("curriculum: marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("curriculum: write %s: %w", path, err)
	}
	return nil
}

// ReadYAML parses an authoring file into units ready to append. Sections
// and lectures without a name are skipped so a half-written file still
// imports what it can.
func ReadYAML(path string) ([]domain.Unit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("curriculum: read %s: %w", path, err)
	}

	var in yamlCourse
	if err := yaml.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("curriculum: parse %s: %w", path, err)
	}

	units := make([]domain.Unit, 0, len(in.Sections))
	for _, s := range in.Sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		u := domain.Unit{Name: name}
		for _, l := range s.Lectures {
			lname := strings.TrimSpace(l.Name)
			if lname == "" {
				continue
			}
			typ := l.Type
			if typ == "" {
				typ = "Theory"
			}
			u.Topics = append(u.Topics, domain.Topic{
				Name:        lname,
				Type:        typ,
				Description: l.Description,
				Duration:    l.Duration,
				IsPreview:   l.Preview,
			})
		}
		units = append(units, u)
	}
	return units, nil
}

// AppendUnits adds several sections in a single whole-curriculum replace.
// Used by YAML import; one PUT instead of one per section.
func (m *Model) AppendUnits(ctx context.Context, units []domain.Unit) error {
	if len(units) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}
	fresh := mappers.CourseFromDoc(base)

	payload := mappers.CurriculumToWire(fresh.Units)
	payload = append(payload, mappers.CurriculumToWire(units)...)

	if err := m.api.PutCurriculum(ctx, m.CourseID, payload); err != nil {
		return err
	}
	return m.reloadLocked(ctx)
}
