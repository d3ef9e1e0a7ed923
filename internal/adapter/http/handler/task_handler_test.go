package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/core/model/response"
	. "taskapp/pkg/test"
)

type TaskHandlerSuite struct {
	suite.Suite
	App *TestApp
}

func (s *TaskHandlerSuite) SetupTest() {
	s.App = NewTestApp()
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var out T
	Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())

	return out
}

func (s *TaskHandlerSuite) createTask(body string) response.TaskResponse {
	w := s.App.Do(http.MethodPost, "/create", body)
	Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

	return decode[response.TaskResponse](w)
}

func (s *TaskHandlerSuite) TestCreate_Success() {
	w := s.App.Do(http.MethodPost, "/create", `{"title":"  Buy milk ","description":"2L","deadline":"2026-03-05"}`)

	Expect(w.Code).To(Equal(http.StatusCreated))

	task := decode[response.TaskResponse](w)
	Expect(task.ID).To(HaveLen(24))
	Expect(task.MongoID).To(Equal(task.ID))
	Expect(task.Title).To(Equal("Buy milk"))
	Expect(task.Status).To(Equal("To Do"))
	Expect(task.Deadline).ToNot(BeNil())
	Expect(task.IsOverdue).To(BeFalse())
	Expect(task.CreatedAt).To(Equal(task.UpdatedAt))
}

func (s *TaskHandlerSuite) TestCreate_JSONShape() {
	w := s.App.Do(http.MethodPost, "/create", `{"title":"Buy milk"}`)

	body := decode[map[string]any](w)
	Expect(body).To(HaveKey("_id"))
	Expect(body).To(HaveKey("id"))
	Expect(body).To(HaveKeyWithValue("deadline", BeNil()))
	Expect(body).To(HaveKeyWithValue("isOverdue", false))
	Expect(body).ToNot(HaveKey("description"))
}

func (s *TaskHandlerSuite) TestCreate_ValidationErrors() {
	cases := []struct {
		body    string
		message string
	}{
		{`{}`, "Title is required."},
		{``, "Title is required."},
		{`{"title":"   "}`, "Title is required."},
		{fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 101)), "Title cannot exceed 100 characters."},
		{fmt.Sprintf(`{"title":"ok","description":%q}`, strings.Repeat("a", 501)), "Description cannot exceed 500 characters."},
		{`{"title":"ok","status":"Blocked"}`, "Invalid status value."},
		{`{"title":"ok","deadline":"tomorrow"}`, "Invalid deadline value."},
		{`{"title":`, "Invalid request body."},
		{`{"title":42}`, "Invalid request body."},
	}

	for _, tc := range cases {
		w := s.App.Do(http.MethodPost, "/create", tc.body)

		Expect(w.Code).To(Equal(http.StatusBadRequest), tc.body)
		Expect(decode[response.ErrorResponse](w).Message).To(Equal(tc.message))
	}
}

func (s *TaskHandlerSuite) TestCreate_Conflict() {
	s.createTask(`{"title":"Buy milk","status":"To Do"}`)

	w := s.App.Do(http.MethodPost, "/create", `{"title":"Buy milk"}`)
	Expect(w.Code).To(Equal(http.StatusConflict))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal(`Task with title "Buy milk" already exists in the "To Do" group.`))

	w = s.App.Do(http.MethodPost, "/create", `{"title":"Buy milk","status":"In Progress"}`)
	Expect(w.Code).To(Equal(http.StatusCreated))
}

func (s *TaskHandlerSuite) TestGet() {
	created := s.createTask(`{"title":"Buy milk"}`)

	w := s.App.Do(http.MethodGet, "/get/"+created.ID, "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.TaskResponse](w).Title).To(Equal("Buy milk"))

	w = s.App.Do(http.MethodGet, "/get/000000000000000000000000", "")
	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Task not found."))

	w = s.App.Do(http.MethodGet, "/get/not-an-id", "")
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Invalid task ID format."))
}

func (s *TaskHandlerSuite) TestList() {
	s.createTask(`{"title":"Buy Milk"}`)
	s.App.Clock.Advance(time.Minute)
	s.createTask(`{"title":"Walk dog","status":"Done"}`)
	s.App.Clock.Advance(time.Minute)
	s.createTask(`{"title":"Bake","description":"with MILK"}`)

	w := s.App.Do(http.MethodGet, "/tasks", "")
	Expect(w.Code).To(Equal(http.StatusOK))
	all := decode[[]response.TaskResponse](w)
	Expect(all).To(HaveLen(3))
	Expect(all[0].Title).To(Equal("Bake"))

	done := decode[[]response.TaskResponse](s.App.Do(http.MethodGet, "/tasks?status=Done", ""))
	Expect(done).To(HaveLen(1))
	Expect(done[0].Status).To(Equal("Done"))

	milk := decode[[]response.TaskResponse](s.App.Do(http.MethodGet, "/tasks?search=milk", ""))
	Expect(milk).To(HaveLen(2))

	inProgress := decode[[]response.TaskResponse](s.App.Do(http.MethodGet, "/tasks?status=In%20Progress", ""))
	Expect(inProgress).To(BeEmpty())

	ignored := decode[[]response.TaskResponse](s.App.Do(http.MethodGet, "/tasks?status=bogus", ""))
	Expect(ignored).To(HaveLen(3))

	w = s.App.Do(http.MethodGet, "/tasks?status=Done&search=milk", "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(Equal("[]"))
}

func (s *TaskHandlerSuite) TestEdit() {
	created := s.createTask(`{"title":"Buy milk","description":"2L","deadline":"2026-03-05T10:00:00Z"}`)
	s.App.Clock.Advance(time.Minute)

	w := s.App.Do(http.MethodPut, "/edit/"+created.ID, `{"status":"In Progress"}`)
	Expect(w.Code).To(Equal(http.StatusOK))

	updated := decode[response.TaskResponse](w)
	Expect(updated.Status).To(Equal("In Progress"))
	Expect(updated.Title).To(Equal(created.Title))
	Expect(updated.Description).To(Equal(created.Description))
	Expect(updated.Deadline).To(Equal(created.Deadline))
	Expect(updated.UpdatedAt.After(created.UpdatedAt)).To(BeTrue())

	w = s.App.Do(http.MethodPut, "/edit/"+created.ID, `{"deadline":null}`)
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.TaskResponse](w).Deadline).To(BeNil())

	w = s.App.Do(http.MethodPut, "/edit/"+created.ID, `{"title":"  "}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Title is required."))

	w = s.App.Do(http.MethodPut, "/edit/000000000000000000000000", `{"title":"x"}`)
	Expect(w.Code).To(Equal(http.StatusNotFound))

	w = s.App.Do(http.MethodPut, "/edit/123", `{"title":"x"}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Invalid task ID format."))
}

func (s *TaskHandlerSuite) TestEdit_ConflictInCurrentGroup() {
	s.createTask(`{"title":"Buy milk"}`)
	other := s.createTask(`{"title":"Walk dog"}`)

	w := s.App.Do(http.MethodPut, "/edit/"+other.ID, `{"title":"Buy milk"}`)
	Expect(w.Code).To(Equal(http.StatusConflict))
}

func (s *TaskHandlerSuite) TestCreate_PaddedTextCountsTowardLimits() {
	padded := " " + strings.Repeat("t", 100) + "  "

	w := s.App.Do(http.MethodPost, "/create", fmt.Sprintf(`{"title":%q}`, padded))
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Title cannot exceed 100 characters."))

	body := fmt.Sprintf(`{"title":"ok","description":%q}`, "  "+strings.Repeat("d", 500)+"  ")
	w = s.App.Do(http.MethodPost, "/create", body)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Description cannot exceed 500 characters."))
}

func (s *TaskHandlerSuite) TestEdit_InvalidBodyReportedBeforeInvalidID() {
	w := s.App.Do(http.MethodPut, "/edit/123", `{"title":null}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Title is required."))
}

func (s *TaskHandlerSuite) TestStatusMoveIntoGroupWithSameTitle() {
	s.createTask(`{"title":"Buy milk","status":"Done"}`)
	first := s.createTask(`{"title":"Buy milk"}`)
	second := s.createTask(`{"title":"Buy milk","status":"In Progress"}`)

	w := s.App.Do(http.MethodPatch, "/tasks/"+first.ID+"/status", `{"status":"Done"}`)
	Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())

	w = s.App.Do(http.MethodPut, "/edit/"+second.ID, `{"status":"Done"}`)
	Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
	Expect(decode[response.TaskResponse](w).Status).To(Equal("Done"))
}

func (s *TaskHandlerSuite) TestPatchStatus() {
	created := s.createTask(`{"title":"Pay rent","deadline":"2026-02-01","status":"In Progress"}`)
	Expect(created.IsOverdue).To(BeTrue())

	w := s.App.Do(http.MethodPatch, "/tasks/"+created.ID+"/status", `{"status":"Done"}`)
	Expect(w.Code).To(Equal(http.StatusOK))

	done := decode[response.TaskResponse](w)
	Expect(done.Status).To(Equal("Done"))
	Expect(done.Deadline).To(Equal(created.Deadline))
	Expect(done.IsOverdue).To(BeFalse())

	w = s.App.Do(http.MethodPatch, "/tasks/"+created.ID+"/status", `{}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](w).Message).To(Equal("Invalid status value."))

	w = s.App.Do(http.MethodPatch, "/tasks/000000000000000000000000/status", `{"status":"Done"}`)
	Expect(w.Code).To(Equal(http.StatusNotFound))

	w = s.App.Do(http.MethodPatch, "/tasks/zzz/status", `{"status":"Done"}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestDelete() {
	created := s.createTask(`{"title":"Buy milk"}`)

	w := s.App.Do(http.MethodDelete, "/remove/"+created.ID, "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](w).Message).To(Equal("Task deleted successfully."))

	w = s.App.Do(http.MethodDelete, "/remove/"+created.ID, "")
	Expect(w.Code).To(Equal(http.StatusNotFound))

	w = s.App.Do(http.MethodDelete, "/remove/nope", "")
	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestCORSPreflight() {
	w := s.App.Do(http.MethodOptions, "/tasks/abc/status", "")

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PATCH"))
}

func (s *TaskHandlerSuite) TestRequestIDHeader() {
	w := s.App.Do(http.MethodGet, "/tasks", "")

	Expect(w.Header().Get("X-Request-ID")).To(HaveLen(36))
}
