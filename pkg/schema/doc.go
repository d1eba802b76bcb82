// Package schema provides typed validation for stage parameters.
//
// A Schema maps parameter names to fields. Each field carries a Type that checks the
// value (kind, range, allowed values) and whether the parameter is required. Hosts use
// it to reject malformed stage insertions; the workflow registry uses it to check its
// own procedure table at start-up.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "count":  schema.Req(schema.IntRange(1, 1000)),
//	    "offset": schema.Opt(schema.Vector()),
//	}
//
//	if err := schema.Validate(s, map[string]any{"count": 5}); err != nil {
//	    // Handle validation errors
//	}
//
// Unknown parameters are rejected, so a typo in a procedure table fails loudly instead of
// silently falling back to a host default.
package schema
