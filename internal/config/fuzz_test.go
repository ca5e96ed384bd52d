package config

import "testing"

// FuzzParse checks that arbitrary scripts never panic the parser.
func FuzzParse(f *testing.F) {
	f.Add([]byte(sampleSketch))
	f.Add([]byte(""))
	f.Add([]byte("sketch = {}"))
	f.Add([]byte("sketch = { width = -1, height = 1e309 }"))
	f.Add([]byte("sketch = { background = {} }"))

	p, err := NewParser()
	if err != nil {
		f.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, err := p.Parse(data)
		if err == nil && cfg == nil {
			t.Error("Parse returned nil config with nil error")
		}
	})
}
