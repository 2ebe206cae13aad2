package docstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	seedFileReadErrorTemplateConstant  = "unable to read seed file %s: %w"
	seedFileParseErrorTemplateConstant = "unable to parse seed file %s: %w"
)

// seedDocument is one entry of a seed file:
//
//	books:
//	  - id: 12q2kiiMYPIiWrWbea2k
//	    fields:
//	      title: Karma Vinai
type seedDocument struct {
	ID     string         `yaml:"id"`
	Fields map[string]any `yaml:"fields"`
}

// LoadSeedFile reads collections from a YAML or JSON seed file.
func LoadSeedFile(seedFilePath string) (map[string][]Document, error) {
	contentBytes, readError := os.ReadFile(seedFilePath)
	if readError != nil {
		return nil, fmt.Errorf(seedFileReadErrorTemplateConstant, seedFilePath, readError)
	}

	var parsed map[string][]seedDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &parsed); unmarshalError != nil {
		return nil, fmt.Errorf(seedFileParseErrorTemplateConstant, seedFilePath, unmarshalError)
	}

	collections := make(map[string][]Document, len(parsed))
	for collectionName, seedDocuments := range parsed {
		documents := make([]Document, 0, len(seedDocuments))
		for _, seeded := range seedDocuments {
			documents = append(documents, Document{ID: seeded.ID, Fields: Fields(seeded.Fields)})
		}
		collections[collectionName] = documents
	}
	return collections, nil
}
