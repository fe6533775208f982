package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// KVSlotsColumns holds the columns for the "kv_slots" table.
	KVSlotsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KVSlotsTable holds the schema information for the "kv_slots" table.
	KVSlotsTable = &schema.Table{
		Name:       "kv_slots",
		Columns:    KVSlotsColumns,
		PrimaryKey: []*schema.Column{KVSlotsColumns[0]},
	}

	// LLMRequestsColumns holds the columns for the "llm_requests" table.
	LLMRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestsTable holds the schema information for the "llm_requests" table.
	LLMRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LLMRequestsColumns,
		PrimaryKey: []*schema.Column{LLMRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_timestamp", Unique: false, Columns: []*schema.Column{LLMRequestsColumns[1]}},
			{Name: "llmrequest_purpose", Unique: false, Columns: []*schema.Column{LLMRequestsColumns[4]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KVSlotsTable,
		LLMRequestsTable,
	}
)
