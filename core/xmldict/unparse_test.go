package xmldict

import (
	"testing"
	"time"

	"github.com/osmforge/osmxml/core/errors"
)

func mustUnparse(t *testing.T, v *Value) string {
	t.Helper()
	s, err := Unparse(v)
	if err != nil {
		t.Fatalf("Unparse failed: %v", err)
	}
	return s
}

func TestUnparse_PairSequence(t *testing.T) {
	input := Mapping(Entry{Key: "osmChange", Value: List(
		Pair("@attrib", Str("yes")),
		Pair("modify", Str("1")),
		Pair("create", Str("2")),
		Pair("modify", Str("3")),
		Pair("modify", Mapping(
			Entry{Key: "@id", Value: Str("4")},
			Entry{Key: "@timestamp", Value: Time(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))},
			Entry{Key: "@visible", Value: Bool(true)},
		)),
	)})

	want := "<?xml version='1.0' encoding='UTF-8'?>\n" +
		`<osmChange attrib="yes"><modify>1</modify><create>2</create><modify>3</modify>` +
		`<modify id="4" timestamp="2020-01-01T00:00:00Z" visible="true"/></osmChange>` + "\n"

	if got := mustUnparse(t, input); got != want {
		t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestUnparse_Mapping(t *testing.T) {
	input := Mapping(Entry{Key: "osmChange", Value: Mapping(
		Entry{Key: "create", Value: List()},
		Entry{Key: "modify", Value: List(
			Mapping(Entry{Key: "@id", Value: Int(1)}),
			Mapping(
				Entry{Key: "@id", Value: Int(2)},
				Entry{Key: "tag", Value: List(
					Mapping(
						Entry{Key: "@k", Value: Str("test")},
						Entry{Key: "@v", Value: Str("zebra")},
					),
					Mapping(
						Entry{Key: "@k", Value: Str("test2")},
						Entry{Key: "@v", Value: Str("zebra2")},
					),
				)},
			),
			Mapping(),
		)},
		Entry{Key: "delete", Value: Mapping(Entry{Key: "@id", Value: Int(3)})},
	)})

	want := "<?xml version='1.0' encoding='UTF-8'?>\n" +
		`<osmChange><modify id="1"/><modify id="2"><tag k="test" v="zebra"/>` +
		`<tag k="test2" v="zebra2"/></modify><modify/><delete id="3"/></osmChange>` + "\n"

	if got := mustUnparse(t, input); got != want {
		t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestUnparse_TextEscaping(t *testing.T) {
	input := Mapping(Entry{Key: "root", Value: Mapping(
		Entry{Key: "#text", Value: Str("<span>/user/小智智/traces/10908782</span>")},
	)})

	want := "<?xml version='1.0' encoding='UTF-8'?>\n" +
		"<root>&lt;span&gt;/user/小智智/traces/10908782&lt;/span&gt;</root>\n"

	if got := mustUnparse(t, input); got != want {
		t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestUnparse_CDATA(t *testing.T) {
	t.Run("inline text", func(t *testing.T) {
		input := Mapping(Entry{Key: "root", Value: Mapping(
			Entry{Key: "#text", Value: Raw("<hello>")},
		)})
		want := "<?xml version='1.0' encoding='UTF-8'?>\n<root><![CDATA[<hello>]]></root>\n"
		if got := mustUnparse(t, input); got != want {
			t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
		}
	})

	t.Run("scalar child", func(t *testing.T) {
		input := Mapping(Entry{Key: "root", Value: Mapping(
			Entry{Key: "desc", Value: Raw("a & b")},
		)})
		want := "<?xml version='1.0' encoding='UTF-8'?>\n<root><desc><![CDATA[a & b]]></desc></root>\n"
		if got := mustUnparse(t, input); got != want {
			t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
		}
	})
}

func TestUnparse_EmptyRootSequence(t *testing.T) {
	input := Mapping(Entry{Key: "root", Value: List()})
	want := "<?xml version='1.0' encoding='UTF-8'?>\n"

	if got := mustUnparse(t, input); got != want {
		t.Errorf("Unparse mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestUnparse_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
		want  string
	}{
		{"string", Str("hi"), "<x>hi</x>"},
		{"empty string", Str(""), "<x/>"},
		{"absent", Absent(), "<x/>"},
		{"nil", nil, "<x/>"},
		{"int", Int(-7), "<x>-7</x>"},
		{"float", Float(0.1), "<x>0.1</x>"},
		{"bool true", Bool(true), "<x>true</x>"},
		{"bool false", Bool(false), "<x>false</x>"},
		{"escaped", Str("a<b&c"), "<x>a&lt;b&amp;c</x>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustUnparse(t, Mapping(Entry{Key: "x", Value: tt.value}))
			want := "<?xml version='1.0' encoding='UTF-8'?>\n" + tt.want + "\n"
			if got != want {
				t.Errorf("Unparse = %q, want %q", got, want)
			}
		})
	}
}

func TestUnparse_Timestamps(t *testing.T) {
	t.Run("whole seconds", func(t *testing.T) {
		v := Mapping(Entry{Key: "x", Value: Mapping(
			Entry{Key: "@timestamp", Value: Time(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))},
		)})
		want := "<?xml version='1.0' encoding='UTF-8'?>\n<x timestamp=\"2020-01-01T00:00:00Z\"/>\n"
		if got := mustUnparse(t, v); got != want {
			t.Errorf("Unparse = %q, want %q", got, want)
		}
	})

	t.Run("microsecond fraction", func(t *testing.T) {
		v := Mapping(Entry{Key: "x", Value: Mapping(
			Entry{Key: "@timestamp", Value: Time(time.Date(2020, 1, 1, 0, 0, 0, 123456000, time.UTC))},
		)})
		want := "<?xml version='1.0' encoding='UTF-8'?>\n<x timestamp=\"2020-01-01T00:00:00.123456Z\"/>\n"
		if got := mustUnparse(t, v); got != want {
			t.Errorf("Unparse = %q, want %q", got, want)
		}
	})

	t.Run("non-UTC rejected", func(t *testing.T) {
		cet := time.FixedZone("CET", 3600)
		v := Mapping(Entry{Key: "x", Value: Mapping(
			Entry{Key: "@timestamp", Value: Time(time.Date(2020, 1, 1, 0, 0, 0, 0, cet))},
		)})
		_, err := Unparse(v)
		if !errors.Is(err, errors.ErrInvalidTimezone) {
			t.Errorf("Unparse error = %v, want ErrInvalidTimezone", err)
		}
	})
}

func TestUnparse_InvalidRoot(t *testing.T) {
	t.Run("two entries", func(t *testing.T) {
		v := Mapping(
			Entry{Key: "root1", Value: Mapping()},
			Entry{Key: "root2", Value: Mapping()},
		)
		_, err := Unparse(v)
		if !errors.Is(err, errors.ErrInvalidRoot) {
			t.Errorf("Unparse error = %v, want ErrInvalidRoot", err)
		}
	})

	t.Run("empty mapping", func(t *testing.T) {
		_, err := Unparse(Mapping())
		if !errors.Is(err, errors.ErrInvalidRoot) {
			t.Errorf("Unparse error = %v, want ErrInvalidRoot", err)
		}
	})

	t.Run("non-mapping", func(t *testing.T) {
		_, err := Unparse(Str("oops"))
		if !errors.Is(err, errors.ErrTypeMismatch) {
			t.Errorf("Unparse error = %v, want ErrTypeMismatch", err)
		}
	})
}

func TestUnparse_RootMultiValue(t *testing.T) {
	t.Run("two mappings rejected", func(t *testing.T) {
		v := Mapping(Entry{Key: "r", Value: List(
			Mapping(Entry{Key: "@a", Value: Str("1")}),
			Mapping(Entry{Key: "@b", Value: Str("2")}),
		)})
		_, err := Unparse(v)
		if !errors.Is(err, errors.ErrRootMultiValue) {
			t.Errorf("Unparse error = %v, want ErrRootMultiValue", err)
		}
	})

	t.Run("pairs with one mapping allowed", func(t *testing.T) {
		v := Mapping(Entry{Key: "r", Value: List(
			Pair("a", Str("1")),
			Mapping(Entry{Key: "@b", Value: Str("2")}),
		)})
		want := "<?xml version='1.0' encoding='UTF-8'?>\n<r><a>1</a></r><r b=\"2\"/>\n"
		if got := mustUnparse(t, v); got != want {
			t.Errorf("Unparse = %q, want %q", got, want)
		}
	})
}

func TestUnparse_NestedSequence(t *testing.T) {
	v := Mapping(Entry{Key: "r", Value: List(
		List(Str("1"), Str("2"), Str("3")),
	)})
	_, err := Unparse(v)
	if !errors.Is(err, errors.ErrNestedSequence) {
		t.Errorf("Unparse error = %v, want ErrNestedSequence", err)
	}
}

func TestUnparse_PairValueSequence(t *testing.T) {
	// A pair's value may itself be a sequence; only direct sequence nesting
	// inside a sequence is rejected.
	v := Mapping(Entry{Key: "osm", Value: Mapping(
		Entry{Key: "tag", Value: List(
			Mapping(Entry{Key: "@k", Value: Str("a")}),
			Mapping(Entry{Key: "@k", Value: Str("b")}),
		)},
	)})
	want := "<?xml version='1.0' encoding='UTF-8'?>\n<osm><tag k=\"a\"/><tag k=\"b\"/></osm>\n"
	if got := mustUnparse(t, v); got != want {
		t.Errorf("Unparse = %q, want %q", got, want)
	}
}

func TestUnparse_AttributeEscaping(t *testing.T) {
	v := Mapping(Entry{Key: "x", Value: Mapping(
		Entry{Key: "@name", Value: Str(`a"b<c&d`)},
	)})
	want := "<?xml version='1.0' encoding='UTF-8'?>\n<x name=\"a&quot;b&lt;c&amp;d\"/>\n"
	if got := mustUnparse(t, v); got != want {
		t.Errorf("Unparse = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "osmChange sequence",
			input: "<?xml version='1.0' encoding='UTF-8'?>\n" +
				`<osmChange><modify id="1"/><create id="2"><tag k="test" v="zebra"/></create><modify id="3"/></osmChange>` + "\n",
		},
		{
			name: "nested osm document",
			input: "<?xml version='1.0' encoding='UTF-8'?>\n" +
				`<osm><changeset id="42" open="false"><tag k="comment" v="hi"/></changeset></osm>` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			out, err := Unparse(parsed)
			if err != nil {
				t.Fatalf("Unparse failed: %v", err)
			}
			if out != tt.input {
				t.Errorf("round trip mismatch\n got: %q\nwant: %q", out, tt.input)
			}

			reparsed, err := Parse([]byte(out))
			if err != nil {
				t.Fatalf("reparse failed: %v", err)
			}
			if !reparsed.Equal(parsed) {
				t.Errorf("reparsed value differs\n got: %s\nwant: %s", reparsed, parsed)
			}
		})
	}
}

func TestUnparseBytes(t *testing.T) {
	v := Mapping(Entry{Key: "root", Value: Str("x")})
	b, err := UnparseBytes(v)
	if err != nil {
		t.Fatalf("UnparseBytes failed: %v", err)
	}
	want := "<?xml version='1.0' encoding='UTF-8'?>\n<root>x</root>\n"
	if string(b) != want {
		t.Errorf("UnparseBytes = %q, want %q", b, want)
	}
}
