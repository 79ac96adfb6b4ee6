package main

import (
	"fmt"

	"github.com/kjhughes/gql"
	"github.com/kjhughes/gql/schema"
)

// character is the shared shape behind the Human and Droid object types. It's the resolved value
// fields on the Character interface and its implementors end up running against.
type character struct {
	id              string
	name            string
	friends         []string
	appearsIn       []string
	primaryFunction string // droids only
	homePlanet      string // humans only
}

var humans = map[string]*character{
	"1000": {id: "1000", name: "Luke Skywalker", friends: []string{"1002", "1003", "2000", "2001"}, appearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, homePlanet: "Tatooine"},
	"1002": {id: "1002", name: "Han Solo", friends: []string{"1000", "1003", "2001"}, appearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}},
	"1003": {id: "1003", name: "Leia Organa", friends: []string{"1000", "1002", "2000", "2001"}, appearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, homePlanet: "Alderaan"},
}

var droids = map[string]*character{
	"2000": {id: "2000", name: "C-3PO", friends: []string{"1000", "1002", "1003"}, appearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, primaryFunction: "Protocol"},
	"2001": {id: "2001", name: "R2-D2", friends: []string{"1000", "1002", "1003"}, appearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, primaryFunction: "Astromech"},
}

func characterByID(id string) *character {
	if c, ok := humans[id]; ok {
		return c
	}
	return droids[id]
}

func isHuman(v interface{}) bool {
	c, ok := v.(*character)
	if !ok {
		return false
	}
	_, ok = humans[c.id]
	return ok
}

func isDroid(v interface{}) bool {
	c, ok := v.(*character)
	if !ok {
		return false
	}
	_, ok = droids[c.id]
	return ok
}

var episodeType = &schema.EnumType{
	Name:        "Episode",
	Description: "One of the films in the original Star Wars trilogy.",
	Values: map[string]*schema.EnumValueDefinition{
		"NEWHOPE": {Description: "Released in 1977."},
		"EMPIRE":  {Description: "Released in 1980."},
		"JEDI":    {Description: "Released in 1983."},
	},
}

func characterField(t gql.Type, resolve func(*character) (interface{}, error)) *gql.FieldDefinition {
	return &gql.FieldDefinition{
		Type: t,
		Resolve: func(ctx gql.FieldContext) (interface{}, error) {
			return resolve(ctx.Object.(*character))
		},
	}
}

var characterInterface = &schema.InterfaceType{
	Name:        "Character",
	Description: "A character in the Star Wars trilogy.",
	Fields: schema.FieldsThunk(func() map[string]*gql.FieldDefinition {
		return map[string]*gql.FieldDefinition{
			"id":   characterField(gql.NewNonNullType(gql.IDType), func(c *character) (interface{}, error) { return c.id, nil }),
			"name": characterField(gql.StringType, func(c *character) (interface{}, error) { return c.name, nil }),
			"appearsIn": characterField(gql.NewListType(episodeType), func(c *character) (interface{}, error) {
				return c.appearsIn, nil
			}),
			"friends": characterField(gql.NewListType(characterInterface), func(c *character) (interface{}, error) {
				friends := make([]*character, len(c.friends))
				for i, id := range c.friends {
					friends[i] = characterByID(id)
				}
				return friends, nil
			}),
		}
	}),
}

func withCharacterFields(extra map[string]*gql.FieldDefinition) *schema.Thunk[map[string]*gql.FieldDefinition] {
	return schema.FieldsThunk(func() map[string]*gql.FieldDefinition {
		fields := make(map[string]*gql.FieldDefinition, len(extra)+4)
		for name, f := range characterInterface.Fields.Get() {
			fields[name] = f
		}
		for name, f := range extra {
			fields[name] = f
		}
		return fields
	})
}

var humanType = &schema.ObjectType{
	Name:                  "Human",
	Description:           "A humanoid creature in the Star Wars universe.",
	ImplementedInterfaces: []*schema.InterfaceType{characterInterface},
	IsTypeOf:              isHuman,
	Fields: withCharacterFields(map[string]*gql.FieldDefinition{
		"homePlanet": characterField(gql.StringType, func(c *character) (interface{}, error) {
			return c.homePlanet, nil
		}),
	}),
}

var droidType = &schema.ObjectType{
	Name:                  "Droid",
	Description:           "A mechanical creature in the Star Wars universe.",
	ImplementedInterfaces: []*schema.InterfaceType{characterInterface},
	IsTypeOf:              isDroid,
	Fields: withCharacterFields(map[string]*gql.FieldDefinition{
		"primaryFunction": characterField(gql.StringType, func(c *character) (interface{}, error) {
			return c.primaryFunction, nil
		}),
	}),
}

func heroForEpisode(episode string) *character {
	if episode == "EMPIRE" {
		return humans["1000"]
	}
	return droids["2001"]
}

var queryType = &schema.ObjectType{
	Name: "Query",
	Fields: schema.Fields(map[string]*gql.FieldDefinition{
		"hero": {
			Type: characterInterface,
			Arguments: map[string]*gql.InputValueDefinition{
				"episode": {Type: episodeType},
			},
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				episode, _ := ctx.Arguments["episode"].(string)
				return heroForEpisode(episode), nil
			},
		},
		"human": {
			Type: humanType,
			Arguments: map[string]*gql.InputValueDefinition{
				"id": {Type: gql.NewNonNullType(gql.IDType)},
			},
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return humans[ctx.Arguments["id"].(string)], nil
			},
		},
		"droid": {
			Type: droidType,
			Arguments: map[string]*gql.InputValueDefinition{
				"id": {Type: gql.NewNonNullType(gql.IDType)},
			},
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return droids[ctx.Arguments["id"].(string)], nil
			},
		},
	}),
}

func buildSchema() (*gql.Schema, error) {
	s, err := gql.NewSchema(&gql.SchemaDefinition{
		Query:           queryType,
		AdditionalTypes: []gql.NamedType{humanType, droidType},
	})
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}
	return s, nil
}
