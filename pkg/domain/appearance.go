package domain

// Labels are the tooltip button captions.
type Labels struct {
	Skip     string `json:"skip,omitempty" yaml:"skip,omitempty" mapstructure:"skip"`
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty" mapstructure:"previous"`
	Next     string `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
	Finish   string `json:"finish,omitempty" yaml:"finish,omitempty" mapstructure:"finish"`
}

// DefaultLabels returns the stock captions.
func DefaultLabels() Labels {
	return Labels{Skip: "Skip", Previous: "Previous", Next: "Next", Finish: "Finish"}
}

// Merge fills empty captions in l from o.
func (l Labels) Merge(o Labels) Labels {
	if l.Skip == "" {
		l.Skip = o.Skip
	}
	if l.Previous == "" {
		l.Previous = o.Previous
	}
	if l.Next == "" {
		l.Next = o.Next
	}
	if l.Finish == "" {
		l.Finish = o.Finish
	}
	return l
}

// Appearance groups the overlay style options. The engine never reads them.
type Appearance struct {
	MaskOffset         float64       `json:"mask_offset,omitempty"`
	BorderRadius       float64       `json:"border_radius,omitempty"`
	BorderRadiusObject *BorderRadius `json:"border_radius_object,omitempty"`
	BackdropColor      string        `json:"backdrop_color,omitempty"`
}
