package quizgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const listSchemaJSON = `{
  "type": "array",
  "items": {"type": "object"}
}`

const questionSchemaJSON = `{
  "type": "object",
  "required": ["type", "text"],
  "properties": {
    "type": {"enum": ["MCQ", "Short Answer"]},
    "text": {"type": "string", "minLength": 1},
    "options": {"type": "array", "items": {"type": "string"}, "minItems": 2},
    "correctAnswerIndex": {"type": "integer", "minimum": 0},
    "correctAnswer": {"type": "string"}
  },
  "allOf": [
    {
      "if": {"properties": {"type": {"const": "MCQ"}}},
      "then": {"required": ["options", "correctAnswerIndex"]}
    },
    {
      "if": {"properties": {"type": {"const": "Short Answer"}}},
      "then": {"required": ["correctAnswer"]}
    }
  ]
}`

type compiledSchemas struct {
	list     *jsonschema.Schema
	question *jsonschema.Schema
}

var (
	schemasOnce sync.Once
	schemas     compiledSchemas
	schemasErr  error
)

func loadSchemas() (compiledSchemas, error) {
	schemasOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for url, src := range map[string]string{
			"schema://question-list.json": listSchemaJSON,
			"schema://question.json":      questionSchemaJSON,
		} {
			var doc any
			if err := json.Unmarshal([]byte(src), &doc); err != nil {
				schemasErr = fmt.Errorf("parse %s: %w", url, err)
				return
			}
			if err := c.AddResource(url, doc); err != nil {
				schemasErr = fmt.Errorf("add resource %s: %w", url, err)
				return
			}
		}
		if schemas.list, schemasErr = c.Compile("schema://question-list.json"); schemasErr != nil {
			return
		}
		schemas.question, schemasErr = c.Compile("schema://question.json")
	})
	return schemas, schemasErr
}
