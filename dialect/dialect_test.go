package dialect

import "testing"

func TestRegisteredDialects(t *testing.T) {
	for _, name := range []string{"sqlite3", "sqlite", "mysql", "postgres", "pgx", "sqlserver"} {
		if _, ok := Get(name); !ok {
			t.Errorf("dialect %q not registered", name)
		}
	}
	if _, ok := Get("oracle"); ok {
		t.Error("unexpected dialect oracle")
	}
	if len(Names()) < 6 {
		t.Errorf("Names() = %v", Names())
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite3", "`users`"},
		{"mysql", "`users`"},
		{"postgres", `"users"`},
		{"sqlserver", "[users]"},
	}
	for _, tt := range tests {
		d, _ := Get(tt.driver)
		if got := d.Quote("users"); got != tt.want {
			t.Errorf("%s Quote = %q, want %q", tt.driver, got, tt.want)
		}
	}

	t.Run("EmbeddedQuotes", func(t *testing.T) {
		escaped := []struct {
			driver string
			name   string
			want   string
		}{
			{"sqlite3", "we`ird", "`we``ird`"},
			{"mysql", "we`ird", "`we``ird`"},
			{"postgres", `we"ird`, `"we""ird"`},
			{"sqlserver", "we]ird", "[we]]ird]"},
		}
		for _, tt := range escaped {
			d, _ := Get(tt.driver)
			if got := d.Quote(tt.name); got != tt.want {
				t.Errorf("%s Quote(%q) = %q, want %q", tt.driver, tt.name, got, tt.want)
			}
		}
	})
}

func TestGoType(t *testing.T) {
	tests := []struct {
		dbType string
		array  bool
		want   string
	}{
		{"TINYINT(1)", false, "int8"},
		{"int(11) unsigned", false, "int32"},
		{"bigint", false, "int64"},
		{"varchar(255)", false, "string"},
		{"character varying", false, "string"},
		{"text", true, "[]string"},
		{"text[]", false, "[]string"},
		{"timestamp with time zone", false, "time.Time"},
		{"bytea", false, "[]byte"},
		{"numeric", false, "float64"},
		{"jsonb", false, "string"},
		{"geometry", false, "any"},
	}
	for _, tt := range tests {
		if got := GoType(tt.dbType, tt.array); got != tt.want {
			t.Errorf("GoType(%q, %v) = %q, want %q", tt.dbType, tt.array, got, tt.want)
		}
	}
}
