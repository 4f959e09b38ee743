package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/model"
)

// Catalog is the precomputed career embedding artifact, loaded once per
// process. Entries keep the order they appear in the artifact so that
// equal-score matches rank deterministically. Read-only after load, safe
// for concurrent readers.
type Catalog struct {
	entries []*model.CareerEntry
	byLabel map[string]*model.CareerEntry
}

// New builds a catalog from entries, keeping their order
func New(entries []*model.CareerEntry) *Catalog {
	byLabel := make(map[string]*model.CareerEntry, len(entries))
	for _, e := range entries {
		byLabel[e.Label] = e
	}
	return &Catalog{entries: entries, byLabel: byLabel}
}

// Load reads a career embedding artifact from path
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open catalog artifact", goerr.V("path", path))
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses the artifact JSON (label -> entry object). The top-level
// object keys are walked with a token decoder instead of a map so that the
// file order of entries survives the load.
func Decode(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog artifact")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, goerr.New("catalog artifact must be a JSON object", goerr.V("token", tok))
	}

	var entries []*model.CareerEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read catalog label")
		}
		label, ok := keyTok.(string)
		if !ok {
			return nil, goerr.New("unexpected catalog key", goerr.V("token", keyTok))
		}

		var entry model.CareerEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode catalog entry", goerr.V("label", label))
		}
		entry.Label = label
		entries = append(entries, &entry)
	}

	return New(entries), nil
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all entries in artifact order. Callers must not modify
// the returned slice or its entries.
func (c *Catalog) Entries() []*model.CareerEntry {
	return c.entries
}

// Get returns the entry for a label, or nil
func (c *Catalog) Get(label string) *model.CareerEntry {
	return c.byLabel[label]
}

// Save writes the catalog as a JSON artifact, preserving entry order
func (c *Catalog) Save(path string) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	for i, e := range c.entries {
		key, err := json.Marshal(e.Label)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal catalog label", goerr.V("label", e.Label))
		}
		val, err := json.MarshalIndent(e, "  ", "  ")
		if err != nil {
			return goerr.Wrap(err, "failed to marshal catalog entry", goerr.V("label", e.Label))
		}

		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(c.entries)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return goerr.Wrap(err, "failed to write catalog artifact", goerr.V("path", path))
	}

	return nil
}
