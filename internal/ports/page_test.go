package ports

import "testing"

func TestPageNormalize(t *testing.T) {
	cases := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Number: 1, Size: DefaultPageSize}},
		{Page{Number: 3, Size: 500}, Page{Number: 3, Size: MaxPageSize}},
		{Page{Number: int(^uint(0) >> 1), Size: 10}, Page{Number: MaxPageNumber, Size: 10}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestPageOffsetDoesNotOverflow(t *testing.T) {
	p := Page{Number: int(^uint(0) >> 1), Size: MaxPageSize}
	if got, want := p.Offset(), (MaxPageNumber-1)*MaxPageSize; got != want {
		t.Fatalf("Offset() = %d, want %d", got, want)
	}
	if got := (Page{Number: 2, Size: 20}).Offset(); got != 20 {
		t.Fatalf("Offset() = %d, want 20", got)
	}
}

func TestLastPage(t *testing.T) {
	if got := (PageResult[int]{Total: 31, Page: Page{Size: 15}}).LastPage(); got != 3 {
		t.Fatalf("LastPage() = %d, want 3", got)
	}
	if got := (PageResult[int]{}).LastPage(); got != 1 {
		t.Fatalf("LastPage(empty) = %d, want 1", got)
	}
}
