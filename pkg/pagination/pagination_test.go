package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor("/")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor("/?limit=50&offset=10")
	if p.Limit != 50 || p.Offset != 10 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor("/?limit=9999")
	if p.Limit != MaxLimit {
		t.Errorf("expected clamp to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_IgnoresGarbage(t *testing.T) {
	p := paramsFor("/?limit=lots&offset=-5")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]int{1, 2}, 10, 2, 0)
	if resp.Total != 10 || !resp.HasMore {
		t.Errorf("unexpected response: %+v", resp)
	}

	last := NewResponse([]int{9, 10}, 10, 2, 8)
	if last.HasMore {
		t.Error("expected no more pages at the end")
	}
}

func TestParams_Next(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if !p.HasNext(100) {
		t.Error("expected next page")
	}
	if p.HasNext(60) {
		t.Error("expected no next page at the boundary")
	}
	if p.NextOffset() != 60 {
		t.Errorf("unexpected next offset %d", p.NextOffset())
	}
}
