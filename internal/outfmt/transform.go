package outfmt

import "strings"

// Transform rewrites a document. Transforms pass unknown shapes through
// unchanged and never fail.
type Transform func(Value) Value

// mapObjects rebuilds v bottom-up, calling fn on every object after its
// children have been rewritten. fn may return any value to replace the
// object.
func mapObjects(v Value, fn func(*Object) Value) Value {
	switch v.Kind {
	case KindArray:
		items := make([]Value, len(v.Arr))
		for i, item := range v.Arr {
			items[i] = mapObjects(item, fn)
		}
		return Array(items)
	case KindObject:
		if v.Obj == nil {
			return v
		}
		obj := NewObject()
		for _, key := range v.Obj.keys {
			obj.Set(key, mapObjects(v.Obj.vals[key], fn))
		}
		return fn(obj)
	default:
		return v
	}
}

// filterKeys rebuilds v dropping every object entry for which drop returns
// true. Children are filtered before drop sees them.
func filterKeys(v Value, drop func(key string, val Value) bool) Value {
	return mapObjects(v, func(o *Object) Value {
		out := NewObject()
		for _, key := range o.keys {
			val := o.vals[key]
			if drop(key, val) {
				continue
			}
			out.Set(key, val)
		}
		return ObjectValue(out)
	})
}

// StripMetadata removes _links and _embedded at every level.
func StripMetadata(v Value) Value {
	return filterKeys(v, func(key string, _ Value) bool {
		return key == "_links" || key == "_embedded"
	})
}

// PlainBodies converts every string "body" field from HTML to plain text.
func PlainBodies(v Value) Value {
	return mapObjects(v, func(o *Object) Value {
		if body, ok := o.Get("body"); ok && body.IsString() {
			o.Set("body", String(HTMLToPlainText(body.Str)))
		}
		return ObjectValue(o)
	})
}

// StripTagStyles drops color and styles from tag records, meaning objects
// that carry id, name and slug together.
func StripTagStyles(v Value) Value {
	return mapObjects(v, func(o *Object) Value {
		if !(o.Has("id") && o.Has("name") && o.Has("slug")) {
			return ObjectValue(o)
		}
		out := NewObject()
		for _, key := range o.keys {
			if key == "color" || key == "styles" {
				continue
			}
			out.Set(key, o.vals[key])
		}
		return ObjectValue(out)
	})
}

// isPlaceholderPerson matches the stand-in person records the API returns
// for unassigned or system actors.
func isPlaceholderPerson(v Value) bool {
	if !v.IsObject() {
		return false
	}
	if id, ok := v.Obj.Get("id"); ok && id.IsZeroNumber() {
		return true
	}
	first, ok := v.Obj.Get("first")
	return ok && first.IsString() && first.Str == "unknown"
}

func isPersonRecord(o *Object) bool {
	return (o.Has("first") || o.Has("last")) && (o.Has("email") || o.Has("id"))
}

// AddPersonNames adds a combined name to person records.
func AddPersonNames(v Value) Value {
	return mapObjects(v, func(o *Object) Value {
		self := ObjectValue(o)
		if !isPersonRecord(o) || isPlaceholderPerson(self) {
			return self
		}
		var parts []string
		for _, key := range []string{"first", "last"} {
			if part, ok := o.Get(key); ok && part.IsString() && part.Str != "" {
				parts = append(parts, part.Str)
			}
		}
		if name := strings.Join(parts, " "); name != "" {
			o.Set("name", String(name))
		}
		return self
	})
}

// StripPlaceholders removes zero closedBy and savedReplyId fields and any
// field holding a placeholder person.
func StripPlaceholders(v Value) Value {
	return filterKeys(v, func(key string, val Value) bool {
		if (key == "closedBy" || key == "savedReplyId") && val.IsZeroNumber() {
			return true
		}
		return isPlaceholderPerson(val)
	})
}

// StripEmptyArrays removes fields whose value is an empty array.
func StripEmptyArrays(v Value) Value {
	return filterKeys(v, func(_ string, val Value) bool {
		return val.IsEmptyArray()
	})
}

// StripPhotoURLs removes photoUrl fields.
func StripPhotoURLs(v Value) Value {
	return filterKeys(v, func(key string, _ Value) bool {
		return key == "photoUrl"
	})
}

// SelectFields keeps only the requested fields, in request order, on the
// first object of each subtree that has any of them. Objects without any
// requested field are searched recursively.
func SelectFields(v Value, fields []string) Value {
	if len(fields) == 0 {
		return v
	}
	switch v.Kind {
	case KindArray:
		items := make([]Value, len(v.Arr))
		for i, item := range v.Arr {
			items[i] = SelectFields(item, fields)
		}
		return Array(items)
	case KindObject:
		if v.Obj == nil {
			return v
		}
		matched := false
		for _, field := range fields {
			if v.Obj.Has(field) {
				matched = true
				break
			}
		}
		out := NewObject()
		if matched {
			for _, field := range fields {
				if val, ok := v.Obj.Get(field); ok {
					out.Set(field, val)
				}
			}
			return ObjectValue(out)
		}
		for _, key := range v.Obj.keys {
			out.Set(key, SelectFields(v.Obj.vals[key], fields))
		}
		return ObjectValue(out)
	default:
		return v
	}
}

// ParseFields splits a comma-separated field list, dropping blanks.
func ParseFields(s string) []string {
	var fields []string
	for _, part := range strings.Split(s, ",") {
		if field := strings.TrimSpace(part); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// Pipeline returns the transforms enabled by opts, in application order.
func Pipeline(opts Options) []Transform {
	var steps []Transform
	if opts.Slim {
		steps = append(steps, StripMetadata)
	}
	if opts.Plain {
		steps = append(steps, PlainBodies)
	}
	steps = append(steps,
		StripTagStyles,
		AddPersonNames,
		StripPlaceholders,
		StripEmptyArrays,
		StripPhotoURLs,
	)
	if len(opts.Fields) > 0 {
		fields := opts.Fields
		steps = append(steps, func(v Value) Value { return SelectFields(v, fields) })
	}
	return steps
}

// Process runs the pipeline for opts over v.
func Process(v Value, opts Options) Value {
	for _, step := range Pipeline(opts) {
		v = step(v)
	}
	return v
}
