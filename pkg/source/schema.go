package source

// documentSchema is the JSON Schema the raw document must satisfy before
// decoding. Kept permissive on unknown fields: exports carry vendor metadata
// the compiler has no business rejecting.
const documentSchema = `{
  "type": "object",
  "properties": {
    "workflow": {"$ref": "#/definitions/workflow"},
    "name": {"type": "string"},
    "nodes": {"type": "array"},
    "edges": {"type": "array"}
  },
  "definitions": {
    "workflow": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "nodes": {
          "type": "array",
          "items": {"$ref": "#/definitions/node"}
        },
        "edges": {
          "type": "array",
          "items": {"$ref": "#/definitions/edge"}
        }
      },
      "required": ["nodes"]
    },
    "node": {
      "type": "object",
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "type": {"type": "string"},
        "prompt": {"type": "string"},
        "isStart": {"type": "boolean"},
        "messagePlan": {
          "type": "object",
          "properties": {"firstMessage": {"type": "string"}}
        },
        "variableExtractionPlan": {
          "type": "object",
          "properties": {
            "output": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "title": {"type": "string", "minLength": 1},
                  "type": {"type": "string"},
                  "description": {"type": "string"},
                  "enum": {"type": "array", "items": {"type": "string"}}
                },
                "required": ["title"]
              }
            }
          }
        },
        "tool": {
          "type": "object",
          "properties": {"type": {"type": "string"}}
        },
        "metadata": {
          "type": "object",
          "properties": {
            "position": {
              "type": "object",
              "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"}
              }
            }
          }
        }
      },
      "required": ["name"]
    },
    "edge": {
      "type": "object",
      "properties": {
        "from": {"type": "string", "minLength": 1},
        "to": {"type": "string", "minLength": 1},
        "condition": {
          "type": "object",
          "properties": {
            "type": {"type": "string"},
            "prompt": {"type": "string"}
          }
        }
      },
      "required": ["from", "to"]
    }
  }
}`
