package docs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/whalerisk/internal/adapters/http/docs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDocs(t *testing.T) {
	Convey("Given a mux with the docs routes registered", t, func() {
		mux := http.NewServeMux()
		docs.Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When fetching the OpenAPI spec", func() {
			resp, err := http.Get(srv.URL + "/openapi.yaml")

			Convey("Then the embedded spec is served", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "yaml")
				_ = resp.Body.Close()
				So(len(docs.OpenAPI), ShouldBeGreaterThan, 0)
				So(string(docs.OpenAPI), ShouldContainSubstring, "Whale Risk API")
			})
		})

		Convey("When fetching the docs page", func() {
			resp, err := http.Get(srv.URL + "/api-docs")

			Convey("Then the ReDoc page is served", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/html")
				_ = resp.Body.Close()
			})
		})

		Convey("When registering against a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { docs.Register(context.Background(), nil) }, ShouldPanic)
			})
		})
	})
}
