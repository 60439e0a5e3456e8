package domain

// Course is the canonical representation of one course inside this tool.
// The remote service owns the durable record; everything here is a working
// copy of the last successful fetch plus uncommitted local edits.
type Course struct {
	ID     string
	Title  string
	Status string // "draft", "published", "archived"

	Units []Unit
}

// Unit is a top-level curriculum section. Its position in the slice is its
// ordering key; the service keeps no separate sort field.
type Unit struct {
	ID     string // server-assigned, empty until persisted
	Name   string
	Topics []Topic
}

// Topic is a single lecture inside a unit.
type Topic struct {
	ID             string // server-assigned, empty until persisted
	Name           string
	Type           string // "Theory" for bare entries, "video" once media exists
	Description    string
	Duration       int // seconds
	IsPreview      bool
	IsDownloadable bool
	Thumbnail      string // URL, optional
	Resources      []Resource
}

// Resource is an uploaded media reference attached to a topic. Entries
// accumulate across re-uploads; the newest one is current for playback.
type Resource struct {
	VideoID string
	Kind    string // "video", "pdf", "image"
	Name    string
	URL     string
}

// CurrentResource returns the newest resource, the one playback uses.
func (t Topic) CurrentResource() (Resource, bool) {
	if len(t.Resources) == 0 {
		return Resource{}, false
	}
	return t.Resources[len(t.Resources)-1], true
}

// FindUnit returns the unit with the given id, if present.
func (c Course) FindUnit(unitID string) (Unit, bool) {
	for _, u := range c.Units {
		if u.ID == unitID {
			return u, true
		}
	}
	return Unit{}, false
}

// FindTopic returns the topic with the given id inside the given unit.
func (c Course) FindTopic(unitID, topicID string) (Topic, bool) {
	u, ok := c.FindUnit(unitID)
	if !ok {
		return Topic{}, false
	}
	for _, t := range u.Topics {
		if t.ID == topicID {
			return t, true
		}
	}
	return Topic{}, false
}
