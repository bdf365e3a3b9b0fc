package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"bucketlistt/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// vendorTestRouter wires the vendor routes behind a stub of the auth
// middleware so ownership checks see a fixed caller.
func (s *TestSuite) vendorTestRouter(userID uint, roles []string) *gin.Engine {
	router := setupRouter()
	vendor := apiv1Group(router)
	vendor.Use(func(ctx *gin.Context) {
		ctx.Set("id", userID)
		ctx.Set("roles", roles)
	})
	bookingVendorHandlers(vendor)
	activityVendorHandlers(vendor)
	return router
}

func (s *TestSuite) TestVendorBookingOwnership() {
	router := s.vendorTestRouter(7, []string{types.ROLE_VENDOR})
	mock := *s.Mock

	s.Run("Should forbid confirming another vendor's booking", func() {
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience_id", "status"}).
				AddRow(1, 5, "pending"))
		mock.ExpectQuery(`SELECT \* FROM "experiences"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "title"}).
				AddRow(5, 9, "Scuba at Baga"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/bookings/1/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})

	s.Run("Should forbid annotating another vendor's booking", func() {
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience_id", "status"}).
				AddRow(1, 5, "pending"))
		mock.ExpectQuery(`SELECT \* FROM "experiences"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "title"}).
				AddRow(5, 9, "Scuba at Baga"))

		jbody := map[string]any{"note": "paid at desk"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/bookings/1/note", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})

	s.Run("Should return 404 for a missing booking", func() {
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience_id", "status"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/bookings/99/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})
}

func (s *TestSuite) TestTimeSlotUpdate() {
	router := s.vendorTestRouter(7, []string{types.ROLE_VENDOR})
	mock := *s.Mock

	expectOwnedSlot := func() {
		mock.ExpectQuery(`SELECT \* FROM "time_slots"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "activity_id", "experience_id", "start_time", "end_time", "capacity"}).
				AddRow(1, 3, 5, "09:00", "11:00", 10))
		mock.ExpectQuery(`SELECT \* FROM "activities"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience_id", "name"}).
				AddRow(3, 5, "Morning dive"))
		mock.ExpectQuery(`SELECT \* FROM "experiences"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "title"}).
				AddRow(5, 7, "Scuba at Baga"))
	}

	s.Run("Should update capacity on an owned slot", func() {
		expectOwnedSlot()
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "time_slots"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		jbody := map[string]any{"capacity": 25}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/time-slots/1", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})

	s.Run("Should reject an end time before the stored start time", func() {
		expectOwnedSlot()

		jbody := map[string]any{"end_time": "08:00"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/time-slots/1", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})

	s.Run("Should forbid updating another vendor's slot", func() {
		mock.ExpectQuery(`SELECT \* FROM "time_slots"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "activity_id", "experience_id", "start_time", "end_time", "capacity"}).
				AddRow(1, 3, 5, "09:00", "11:00", 10))
		mock.ExpectQuery(`SELECT \* FROM "activities"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience_id", "name"}).
				AddRow(3, 5, "Morning dive"))
		mock.ExpectQuery(`SELECT \* FROM "experiences"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "title"}).
				AddRow(5, 9, "Scuba at Baga"))

		jbody := map[string]any{"capacity": 25}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/time-slots/1", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})
}
