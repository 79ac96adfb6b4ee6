// Command gqlrun parses, validates, and executes a GraphQL query against an in-process demo
// schema, printing the JSON result to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/kjhughes/gql"
)

func Run(w io.Writer, args ...string) []error {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

	queryPath := flags.StringP("query", "q", "", "path to a file containing the GraphQL query to run, or - for stdin")
	operationName := flags.String("operation", "", "the operation to run, if the query document defines more than one")
	variablesJSON := flags.String("variables", "", "a JSON object of variable values for the query")
	verbose := flags.BoolP("verbose", "v", false, "log request lifecycle events to stderr")
	flags.Parse(args)

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	if *queryPath == "" {
		return []error{fmt.Errorf("the --query flag is required")}
	}

	var queryBytes []byte
	var err error
	if *queryPath == "-" {
		queryBytes, err = ioutil.ReadAll(os.Stdin)
	} else {
		queryBytes, err = ioutil.ReadFile(*queryPath)
	}
	if err != nil {
		return []error{fmt.Errorf("error reading query: %w", err)}
	}

	var variables map[string]interface{}
	if *variablesJSON != "" {
		if err := json.Unmarshal([]byte(*variablesJSON), &variables); err != nil {
			return []error{fmt.Errorf("error parsing --variables: %w", err)}
		}
	}

	logger.WithField("operation", *operationName).Debug("building schema")
	schema, err := buildSchema()
	if err != nil {
		return []error{err}
	}

	logger.Debug("executing request")
	result := gql.Graphql(&gql.Request{
		Context:        context.Background(),
		Query:          string(queryBytes),
		Schema:         schema,
		OperationName:  *operationName,
		VariableValues: variables,
	})
	for _, gqlErr := range result.Errors {
		logger.WithField("message", gqlErr.Message).Warn("request completed with an error")
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return []error{fmt.Errorf("error marshaling result: %w", err)}
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func main() {
	if errs := Run(os.Stdout, os.Args[1:]...); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}
