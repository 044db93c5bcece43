/*
Copyright © 2026 the OSPrep authors.
This file is part of OSPrep.

OSPrep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OSPrep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OSPrep.  If not, see <http://www.gnu.org/licenses/>.
*/

package modelio

import (
	"fmt"
	"io"
	"os"

	"github.com/spatialmodel/osprep/params"
	"gopkg.in/yaml.v3"
)

// WriteDocument writes doc as YAML.
func WriteDocument(w io.Writer, doc *params.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("modelio: encoding document: %v", err)
	}
	return enc.Close()
}

// ReadDocument reads a YAML document.
func ReadDocument(r io.Reader) (*params.Document, error) {
	doc := new(params.Document)
	if err := yaml.NewDecoder(r).Decode(doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("modelio: empty document")
		}
		return nil, fmt.Errorf("modelio: decoding document: %v", err)
	}
	if doc.Model.ID == "" {
		return nil, fmt.Errorf("modelio: document has no model id")
	}
	return doc, nil
}

// SaveDocument writes doc to a YAML file at path.
func SaveDocument(path string, doc *params.Document) error {
	return writeFile(path, func(f *os.File) error {
		return WriteDocument(f, doc)
	})
}

// LoadDocument reads the YAML file at path.
func LoadDocument(path string) (*params.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("modelio: %v", err)
	}
	defer f.Close()
	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
