// pkg/registry/schema.go
package registry

// CatalogSchema describes a catalog file. Levels mirror models.OfficeLevel.
const CatalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "provinces", "services", "default_stages"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "provinces": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "districts"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "districts": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "cities": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "wards": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "live_cities": {"type": "array", "items": {"type": "string"}},
    "services": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "level", "office_name"],
        "properties": {
          "type": {"type": "string", "pattern": "^[a-z]+(-[a-z]+)*$"},
          "level": {"enum": ["local", "metropolitan", "district", "province", "national"]},
          "office_name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "needs_ward": {"type": "boolean"}
        }
      }
    },
    "default_stages": {"allOf": [{"$ref": "#/definitions/stages"}], "minItems": 1},
    "stages": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/stages"}
    }
  },
  "definitions": {
    "stages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "office": {"type": "string"}
        }
      }
    }
  }
}`
