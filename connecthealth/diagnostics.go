package connecthealth

// Diagnostics is an ordered mapping from label to text.
// The first Set of a label fixes its position; later writes to the same
// label replace the value in place.
type Diagnostics struct {
	keys   []string
	values map[string]string
}

// NewDiagnostics returns an empty Diagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{values: make(map[string]string)}
}

// Set records text under label.
func (d *Diagnostics) Set(label, text string) {
	if _, ok := d.values[label]; !ok {
		d.keys = append(d.keys, label)
	}
	d.values[label] = text
}

// Get returns the text recorded under label.
func (d *Diagnostics) Get(label string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values[label]
	return v, ok
}

// Len returns the number of labels.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the labels in insertion order.
func (d *Diagnostics) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Map returns a copy of the diagnostics as a plain map.
func (d *Diagnostics) Map() map[string]string {
	out := make(map[string]string, d.Len())
	if d == nil {
		return out
	}
	for _, k := range d.keys {
		out[k] = d.values[k]
	}
	return out
}
