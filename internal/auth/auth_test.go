package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPasswordHashing(t *testing.T) {
	Convey("Given a hashed password", t, func() {
		hash, err := auth.HashPassword("correct-horse")
		So(err, ShouldBeNil)
		So(hash, ShouldNotEqual, "correct-horse")

		Convey("The right password verifies", func() {
			So(auth.CheckPassword(hash, "correct-horse"), ShouldBeTrue)
		})

		Convey("A wrong password does not", func() {
			So(auth.CheckPassword(hash, "battery-staple"), ShouldBeFalse)
		})

		Convey("Garbage hashes never verify", func() {
			So(auth.CheckPassword("not-a-hash", "correct-horse"), ShouldBeFalse)
		})
	})
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a session store", t, func() {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		store := auth.NewSessionStore(auth.WithTTL(time.Hour), auth.WithClock(clock))

		id := auth.Identity{UserID: "u1", OrgID: "org-1", Role: types.RoleScout}

		Convey("A created token resolves to its identity", func() {
			token := store.Create(id)
			got, ok := store.Resolve(token)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, id)
		})

		Convey("An unknown token does not resolve", func() {
			_, ok := store.Resolve("nope")
			So(ok, ShouldBeFalse)
		})

		Convey("An expired token does not resolve", func() {
			token := store.Create(id)
			now = now.Add(2 * time.Hour)
			_, ok := store.Resolve(token)
			So(ok, ShouldBeFalse)
		})

		Convey("Revoke invalidates one token", func() {
			token := store.Create(id)
			store.Revoke(token)
			_, ok := store.Resolve(token)
			So(ok, ShouldBeFalse)
		})

		Convey("RevokeUser invalidates every session of the user", func() {
			t1 := store.Create(id)
			t2 := store.Create(id)
			other := store.Create(auth.Identity{UserID: "u2", OrgID: "org-1", Role: types.RoleAdmin})

			store.RevokeUser("u1")
			_, ok1 := store.Resolve(t1)
			_, ok2 := store.Resolve(t2)
			_, okOther := store.Resolve(other)
			So(ok1, ShouldBeFalse)
			So(ok2, ShouldBeFalse)
			So(okOther, ShouldBeTrue)
			So(store.Len(), ShouldEqual, 1)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given a protected handler", t, func() {
		store := auth.NewSessionStore()
		token := store.Create(auth.Identity{UserID: "u1", OrgID: "org-1", Role: types.RoleManager})

		var seen auth.Identity
		handler := auth.RequireSession(store, func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.IdentityFrom(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		Convey("A valid bearer token passes and carries the identity", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNoContent)
			So(seen.UserID, ShouldEqual, "u1")
			So(seen.OrgID, ShouldEqual, "org-1")
		})

		Convey("A missing token is rejected", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
			rec := httptest.NewRecorder()

			handler(rec, req)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A bogus token is rejected", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
			req.Header.Set("Authorization", "Bearer nope")
			rec := httptest.NewRecorder()

			handler(rec, req)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("RequireRole blocks lower roles", func() {
			adminOnly := auth.RequireSession(store, auth.RequireRole(types.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			adminOnly(rec, req)
			So(rec.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("RequireRole admits the same or higher role", func() {
			managerOK := auth.RequireSession(store, auth.RequireRole(types.RoleManager, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			managerOK(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNoContent)
		})
	})
}
