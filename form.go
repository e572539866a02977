package stripe

import (
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Form is used for defining free-form parameters that are passed in the body
// of a request made to the Stripe API. This will be encoded into a valid
// x-www-form-urlencoded payload. Typed parameter structs cover the common
// parameters of each resource, Form covers everything else.
type Form map[string]interface{}

type pair struct {
	key   string
	value interface{}
}

func (p pair) encode() string { return p.key + "=" + url.QueryEscape(fmt.Sprintf("%v", p.value)) }

// encodePairs will encode the given pairs into a single x-www-form-urlencoded
// string. The encoded pairs are sorted, so the payload for a given parameter
// set is always the same no matter how the set was built up.
func encodePairs(pairs []pair) string {
	ss := make([]string, 0, len(pairs))

	for _, p := range pairs {
		ss = append(ss, p.encode())
	}

	sort.Strings(ss)
	return strings.Join(ss, "&")
}

// encodeSliceToPairs will encode an arbitrary slice of values into a slice of
// pairs. It is expected for the given reflect.Value to be of reflect.Slice.
// The given key denotes the key in the original parameter set for which the
// slice belongs to. Each pair encoded will have a key of key[i] where key is
// the passed key argument, and i is the position of the pair's value in the
// slice.
func encodeSliceToPairs(key string, val reflect.Value) []pair {
	pairs := make([]pair, 0)

	for i := 0; i < val.Len(); i++ {
		k := key + "[" + strconv.FormatInt(int64(i), 10) + "]"
		pairs = append(pairs, encodeValueToPairs(k, val.Index(i))...)
	}
	return pairs
}

// encodeMapToPairs will encode a map into a slice of pairs, where each pair
// has a key of key[k] for each k in the map. Map keys are expected to be
// strings, or have a string kind.
func encodeMapToPairs(key string, val reflect.Value) []pair {
	pairs := make([]pair, 0)

	it := val.MapRange()

	for it.Next() {
		k := fmt.Sprintf("%v", it.Key().Interface())

		if key != "" {
			k = key + "[" + k + "]"
		}
		pairs = append(pairs, encodeValueToPairs(k, it.Value())...)
	}
	return pairs
}

// encodeStructToPairs will encode the exported fields of a struct into a
// slice of pairs, using each field's form tag as the key. Fields with no form
// tag, or a form tag of "-", are ignored. Anonymous fields with no form tag
// are encoded as if their fields belonged to the parent struct.
func encodeStructToPairs(key string, val reflect.Value) []pair {
	pairs := make([]pair, 0)
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		fld := typ.Field(i)

		if fld.PkgPath != "" {
			continue
		}

		tag := fld.Tag.Get("form")

		if tag == "-" {
			continue
		}

		if tag == "" {
			if fld.Anonymous {
				pairs = append(pairs, encodeValueToPairs(key, val.Field(i))...)
			}
			continue
		}

		k := tag

		if key != "" {
			k = key + "[" + tag + "]"
		}
		pairs = append(pairs, encodeValueToPairs(k, val.Field(i))...)
	}
	return pairs
}

// encodeValueToPairs will encode an arbitrary value into a slice of pairs
// under the given key. Nil pointers and nil interfaces produce no pairs at
// all, which is how optional parameters that were never set are left out of a
// request payload entirely.
func encodeValueToPairs(key string, val reflect.Value) []pair {
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return encodeValueToPairs(key, val.Elem())
	case reflect.Struct:
		return encodeStructToPairs(key, val)
	case reflect.Map:
		return encodeMapToPairs(key, val)
	case reflect.Slice, reflect.Array:
		return encodeSliceToPairs(key, val)
	case reflect.Invalid, reflect.Chan, reflect.Func:
		return nil
	default:
		return []pair{{key: key, value: val.Interface()}}
	}
}

// formPairs returns the pairs for the given parameter value, typically a
// pointer to one of the resource parameter structs.
func formPairs(v interface{}) []pair {
	if v == nil {
		return nil
	}
	return encodeValueToPairs("", reflect.ValueOf(v))
}

func (f Form) encodeToPairs(parent string) []pair {
	return encodeMapToPairs(parent, reflect.ValueOf(f))
}

// Encode encodes the current Form into an x-www-form-urlencoded string and
// returns it.
func (f Form) Encode() string { return encodePairs(f.encodeToPairs("")) }

// Reader returns an io.Reader for the x-www-form-urlencoded string of the
// current Form.
func (f Form) Reader() io.Reader { return strings.NewReader(f.Encode()) }
