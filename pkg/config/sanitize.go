/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"encoding/json"
	"reflect"
	"strings"
)

const redactedValue = "[redacted]"

// Redacted marshals cfg to JSON with every non-empty `sensitive:"true"`
// field replaced by a placeholder, for logging the effective configuration.
func Redacted(cfg interface{}) ([]byte, error) {
	if cfg == nil {
		return []byte("null"), nil
	}

	return json.Marshal(redactValue(reflect.ValueOf(cfg)))
}

func redactValue(v reflect.Value) interface{} {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return v.Interface()
	}

	if _, ok := v.Interface().(json.Marshaler); ok {
		return v.Interface()
	}

	t := v.Type()
	out := make(map[string]interface{}, t.NumField())

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty := jsonFieldName(field)
		if name == "-" {
			continue
		}

		fv := v.Field(i)

		if field.Tag.Get("sensitive") == "true" {
			if !fv.IsZero() {
				out[name] = redactedValue
			}

			continue
		}

		if omitEmpty && fv.IsZero() {
			continue
		}

		out[name] = redactValue(fv)
	}

	return out
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}

	return name, strings.Contains(opts, "omitempty")
}
