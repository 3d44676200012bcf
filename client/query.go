package client

import (
	"encoding/json"
	"strings"

	"github.com/verses-xyz/interdependence"
)

// TagFilter matches transactions carrying one of Values under tag Name.
type TagFilter struct {
	Name   string
	Values []string
}

// Query is a structured ledger search: tag filters plus a publisher
// allowlist. It is serialized by GraphQL() alone, so caller-supplied values
// (a handle, a transaction id pasted from a URL) can never alter the query
// structure.
type Query struct {
	Tags   []TagFilter
	Owners []string
}

// SignaturesOf is the canonical query for all signature documents that
// reference declarationTxID and were published by publisher.
func SignaturesOf(declarationTxID, publisher string) Query {
	return Query{
		Tags: []TagFilter{
			{Name: interdependence.TagDocType, Values: []string{interdependence.DocTypeSignature}},
			{Name: interdependence.TagDocRef, Values: []string{declarationTxID}},
		},
		Owners: []string{publisher},
	}
}

func quote(s string) string {
	// json.Marshal of a string cannot fail and yields a double-quoted,
	// escaped GraphQL string literal.
	b, _ := json.Marshal(s)
	return string(b)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// GraphQL serializes the query into the gateway's search document.
func (q Query) GraphQL() string {
	var b strings.Builder
	b.WriteString("query { transactions(")

	if len(q.Tags) > 0 {
		b.WriteString("tags: [")
		for i, tag := range q.Tags {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("{name: ")
			b.WriteString(quote(tag.Name))
			b.WriteString(", values: ")
			b.WriteString(quoteList(tag.Values))
			b.WriteString("}")
		}
		b.WriteString("]")
	}

	if len(q.Owners) > 0 {
		if len(q.Tags) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("owners: ")
		b.WriteString(quoteList(q.Owners))
	}

	b.WriteString(") { edges { node { id tags { name value } } } } }")
	return b.String()
}
