package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// APIVersion is the version of the HTTP contract described by NewDocument.
const APIVersion = "1.0.0"

// DocumentOptions selects the optional parts of the document.
type DocumentOptions struct {
	Version string // Build version, added to the description
	Undo    bool   // Describe POST /undo_robot and GET /robot_history
	Events  bool   // Describe GET /events
}

// ref points at a component schema, keeping its value for in-process validation.
func ref(schemas openapi3.Schemas, name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schemas[name].Value)
}

// NewDocument builds the OpenAPI 3 document for the routes served with pattern.
// The RobotState schema follows the pattern's JSON shape.
func NewDocument(pattern ports.Pattern, opts DocumentOptions) *openapi3.T {
	names := make([]any, 0, 4)
	for _, d := range domain.Directions() {
		names = append(names, d.String())
	}

	direction := openapi3.NewStringSchema().WithEnum(names...)
	direction.Description = "Cardinal direction the robot faces"

	position := openapi3.NewObjectSchema().
		WithProperty("x", openapi3.NewIntegerSchema()).
		WithProperty("y", openapi3.NewIntegerSchema())
	position.Required = []string{"x", "y"}

	schemas := openapi3.Schemas{
		"Direction": direction.NewRef(),
		"Position":  position.NewRef(),
	}

	var state *openapi3.Schema
	switch pattern.Shape() {
	case ports.ShapeTagged:
		located := openapi3.NewObjectSchema().WithPropertyRef("position", ref(schemas, "Position"))
		located.Required = []string{"position"}
		schemas["Located"] = located.NewRef()

		variants := make([]*openapi3.Schema, 0, len(names))
		for _, d := range domain.Directions() {
			v := openapi3.NewObjectSchema().WithPropertyRef(d.String(), ref(schemas, "Located"))
			v.Required = []string{d.String()}
			variants = append(variants, v)
		}
		state = openapi3.NewOneOfSchema(variants...)
		state.Description = "Robot tagged with the direction it faces"
	default:
		state = openapi3.NewObjectSchema().
			WithProperty("x", openapi3.NewIntegerSchema()).
			WithProperty("y", openapi3.NewIntegerSchema()).
			WithPropertyRef("facing", ref(schemas, "Direction"))
		state.Required = []string{"x", "y", "facing"}
	}
	schemas["RobotState"] = state.NewRef()

	instructions := openapi3.NewStringSchema()
	instructions.Description = "L turns left, R turns right, A advances; other characters are ignored"
	move := openapi3.NewObjectSchema().WithProperty("instructions", instructions)
	move.Required = []string{"instructions"}
	schemas["MoveRequest"] = move.NewRef()

	description := fmt.Sprintf("Grid robot implemented with the %q pattern: %s", pattern.Name(), pattern.Description())
	if opts.Version != "" {
		description += fmt.Sprintf(" (build %s)", opts.Version)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Rover API",
			Version:     APIVersion,
			Description: description,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}

	stateResponse := func(desc string) *openapi3.Responses {
		return openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(ref(schemas, "RobotState")),
			}),
		)
	}
	withBadRequest := func(r *openapi3.Responses) *openapi3.Responses {
		r.Set("400", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Malformed request body"),
		})
		return r
	}

	doc.AddOperation("/move_robot", http.MethodPost, &openapi3.Operation{
		OperationID: "moveRobot",
		Summary:     "Apply an instruction string",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref(schemas, "MoveRequest")),
		},
		Responses: withBadRequest(stateResponse("State after the instructions were applied")),
	})
	doc.AddOperation("/reposition_robot", http.MethodPost, &openapi3.Operation{
		OperationID: "repositionRobot",
		Summary:     "Replace the robot wholesale",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref(schemas, "RobotState")),
		},
		Responses: withBadRequest(stateResponse("The new state")),
	})
	doc.AddOperation("/reset_robot", http.MethodPost, &openapi3.Operation{
		OperationID: "resetRobot",
		Summary:     "Put the robot back at its starting pose",
		Responses:   stateResponse("State after reset"),
	})
	doc.AddOperation("/robot_position", http.MethodGet, &openapi3.Operation{
		OperationID: "robotPosition",
		Summary:     "Read the current state",
		Responses:   stateResponse("Current state"),
	})
	if opts.Undo {
		doc.AddOperation("/undo_robot", http.MethodPost, &openapi3.Operation{
			OperationID: "undoRobot",
			Summary:     "Revert the last executed command",
			Responses:   stateResponse("State after the undo; X-Robot-Undone is false when the history was empty"),
		})
		history := openapi3.NewObjectSchema().
			WithProperty("history", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
		history.Required = []string{"history"}
		doc.AddOperation("/robot_history", http.MethodGet, &openapi3.Operation{
			OperationID: "robotHistory",
			Summary:     "List the commands undo_robot would revert, oldest first",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Recorded commands").WithJSONSchema(history),
				}),
			),
		})
	}
	if opts.Events {
		doc.AddOperation("/events", http.MethodGet, &openapi3.Operation{
			OperationID: "subscribeEvents",
			Summary:     "Stream pose events (Server-Sent Events)",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().
						WithDescription("Event stream").
						WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/event-stream"})),
				}),
			),
		})
	}

	status := openapi3.NewObjectSchema().WithProperty("status", openapi3.NewStringSchema())
	doc.AddOperation("/health", http.MethodGet, &openapi3.Operation{
		OperationID: "getHealth",
		Summary:     "Liveness check",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Service is up").WithJSONSchema(status),
			}),
		),
	})
	info := openapi3.NewObjectSchema().
		WithProperty("app", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("api_version", openapi3.NewStringSchema()).
		WithProperty("pattern", openapi3.NewStringSchema()).
		WithProperty("undo", openapi3.NewBoolSchema())
	doc.AddOperation("/info", http.MethodGet, &openapi3.Operation{
		OperationID: "getInfo",
		Summary:     "Build and pattern information",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Service information").WithJSONSchema(info),
			}),
		),
	})

	return doc
}

// MarshalYAML renders the document as YAML.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openapi document: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode openapi document: %w", err)
	}
	return yaml.Marshal(tree)
}
