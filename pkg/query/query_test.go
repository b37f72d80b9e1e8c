package query_test

import (
	"testing"

	"github.com/castlereach/dealdesk/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "deals", "d").
		Project("id", "id").
		Project("name", "name").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "d.id, d.name, d.created_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
		ok       bool
	}{
		{"mapped field", "name", "d.name", true},
		{"mapped camel", "createdAt", "d.created_at", true},
		{"unmapped rejected", "unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Column(tt.viewName)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Column(%q) = (%q, %v), want (%q, %v)", tt.viewName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestProjectionMapFrom(t *testing.T) {
	t.Run("without joins", func(t *testing.T) {
		p := testProjection()
		if got := p.From(); got != "public.deals d" {
			t.Errorf("From() = %q, want %q", got, "public.deals d")
		}
	})

	t.Run("with join", func(t *testing.T) {
		p := query.NewProjectionMap("public", "workflows", "w").
			Project("id", "id").
			Join("public", "deals", "d", "INNER JOIN", "w.deal_id = d.id").
			Project("firm_id", "firmId")

		want := "public.workflows w INNER JOIN public.deals d ON w.deal_id = d.id"
		if got := p.From(); got != want {
			t.Errorf("From() = %q, want %q", got, want)
		}
	})

	t.Run("join switches projection alias", func(t *testing.T) {
		p := query.NewProjectionMap("public", "workflows", "w").
			Project("id", "id").
			Join("public", "deals", "d", "INNER JOIN", "w.deal_id = d.id").
			Project("firm_id", "firmId")

		if got, _ := p.Column("firmId"); got != "d.firm_id" {
			t.Errorf("Column(firmId) = %q, want %q", got, "d.firm_id")
		}
		if got, _ := p.Column("id"); got != "w.id" {
			t.Errorf("Column(id) = %q, want %q", got, "w.id")
		}
	})
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty string", "", nil},
		{"single ascending", "name", []query.SortField{{Field: "name"}}},
		{"single descending", "-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{
			"multiple mixed", "name,-createdAt",
			[]query.SortField{{Field: "name"}, {Field: "createdAt", Descending: true}},
		},
		{
			"with spaces", " name , -createdAt ",
			[]query.SortField{{Field: "name"}, {Field: "createdAt", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		q, args := query.NewBuilder(testProjection()).Build()
		want := "SELECT d.id, d.name, d.created_at FROM public.deals d"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})

	t.Run("placeholders numbered across conditions", func(t *testing.T) {
		q, args := query.NewBuilder(testProjection()).
			WhereEquals("id", ptr("abc")).
			WhereContains("name", ptr("acme")).
			Build()

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d" +
			" WHERE d.id = $1 AND d.name ILIKE $2"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
		if len(args) != 2 {
			t.Fatalf("args length = %d, want 2", len(args))
		}
		if args[1] != "%acme%" {
			t.Errorf("args[1] = %v, want %%acme%%", args[1])
		}
	})

	t.Run("nil values skipped", func(t *testing.T) {
		q, args := query.NewBuilder(testProjection()).
			WhereEquals("id", (*string)(nil)).
			WhereContains("name", nil).
			Build()

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})
}

func TestBuilderRejectsUnmappedFields(t *testing.T) {
	t.Run("order by drops unmapped sort fields", func(t *testing.T) {
		hostile := "(SELECT CASE WHEN EXISTS(SELECT 1 FROM deals WHERE firm_id='firm-b') THEN 1 ELSE 2 END)"
		q, _ := query.NewBuilder(testProjection()).
			OrderByFields(query.ParseSortFields(hostile)).
			BuildPage(1, 10)

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d LIMIT 10 OFFSET 0"
		if q != want {
			t.Errorf("BuildPage() = %q, want %q", q, want)
		}
	})

	t.Run("order by keeps mapped fields alongside dropped ones", func(t *testing.T) {
		q, _ := query.NewBuilder(testProjection()).
			OrderByFields(query.ParseSortFields("bogus,-createdAt")).
			Build()

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d ORDER BY d.created_at DESC"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
	})

	t.Run("where equals skips unmapped field", func(t *testing.T) {
		q, args := query.NewBuilder(testProjection()).
			WhereEquals("firm_id = 'x'; --", "value").
			Build()

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})

	t.Run("where search drops unmapped fields", func(t *testing.T) {
		q, args := query.NewBuilder(testProjection()).
			WhereSearch(ptr("acme"), "bogus", "name").
			Build()

		want := "SELECT d.id, d.name, d.created_at FROM public.deals d" +
			" WHERE (d.name ILIKE $1)"
		if q != want {
			t.Errorf("Build() = %q, want %q", q, want)
		}
		if len(args) != 1 {
			t.Errorf("args length = %d, want 1", len(args))
		}
	})
}

func TestBuilderBuildPage(t *testing.T) {
	q, _ := query.NewBuilder(
		testProjection(),
		query.SortField{Field: "createdAt", Descending: true},
	).BuildPage(2, 10)

	want := "SELECT d.id, d.name, d.created_at FROM public.deals d" +
		" ORDER BY d.created_at DESC LIMIT 10 OFFSET 10"
	if q != want {
		t.Errorf("BuildPage() = %q, want %q", q, want)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	q, args := query.NewBuilder(testProjection()).BuildSingle("id", "abc")

	want := "SELECT d.id, d.name, d.created_at FROM public.deals d WHERE d.id = $1"
	if q != want {
		t.Errorf("BuildSingle() = %q, want %q", q, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	q, args := query.NewBuilder(testProjection()).
		WhereSearch(ptr("acme"), "name", "id").
		Build()

	want := "SELECT d.id, d.name, d.created_at FROM public.deals d" +
		" WHERE (d.name ILIKE $1 OR d.id ILIKE $2)"
	if q != want {
		t.Errorf("Build() = %q, want %q", q, want)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
}
