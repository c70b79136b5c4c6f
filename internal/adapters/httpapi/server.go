package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gyiad-org/membership-api/internal/app/directory"
	"github.com/gyiad-org/membership-api/internal/app/members"
	"github.com/gyiad-org/membership-api/internal/app/passwordreset"
	"github.com/gyiad-org/membership-api/internal/app/requests"
	"github.com/gyiad-org/membership-api/internal/app/settings"
	"github.com/gyiad-org/membership-api/internal/app/stats"
	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

// Server holds the application services behind the HTTP handlers.
type Server struct {
	Directory *directory.Service
	Members   *members.Service
	Requests  *requests.Service
	Stats     *stats.Service
	Settings  *settings.Service
	Reset     *passwordreset.Service

	// Repo resolves the authenticated subject to a member record for
	// admin-gated handlers.
	Repo memberrepo.Repository
}

// caller loads the member record behind the authenticated subject. Admin-gated
// handlers refuse subjects without a record.
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (domain.Member, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated subject", nil)
		return domain.Member{}, false
	}
	m, err := s.Repo.GetByID(r.Context(), domain.MemberID(sub))
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "no member record for the authenticated subject", nil)
			return domain.Member{}, false
		}
		writeAppError(w, r, err)
		return domain.Member{}, false
	}
	return m, true
}

func (s *Server) subject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated subject", nil)
		return "", false
	}
	return domain.SubjectID(sub), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return false
	}
	return true
}

// --- directory ---

func (s *Server) handleDirectoryList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := directory.Filter{
		Category: directory.Category(q.Get("category")),
		Search:   q.Get("search"),
		Sector:   q.Get("sector"),
		Gender:   domain.Gender(q.Get("gender")),
	}
	cards, err := s.Directory.List(r.Context(), f)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardView{
			ID:          string(c.ID),
			FullName:    c.FullName,
			CompanyName: c.CompanyName,
			Role:        c.Role,
			AvatarURL:   nullableFromPtr(c.AvatarURL),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": out})
}

func (s *Server) handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	id := domain.MemberID(chi.URLParam(r, "memberId"))
	m, err := s.Directory.Get(r.Context(), id, sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberView(m))
}

// --- self-service profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	m, err := s.Members.GetProfile(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberView(m))
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var req ProfilePatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := s.Members.UpdateProfile(r.Context(), sub, profilePatchFromRequest(req))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberView(m))
}

// --- admin member CRUD ---

func (s *Server) handleAdminListMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !caller.IsAdmin {
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin privileges required", nil)
		return
	}

	q := r.URL.Query()
	year := 0
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid year", nil)
			return
		}
		year = n
	}
	ms, err := s.Directory.ListAdmin(r.Context(), directory.AdminFilter{
		Search: q.Get("search"),
		Status: domain.MemberType(q.Get("status")),
		Role:   domain.BoardRole(q.Get("role")),
		Gender: domain.Gender(q.Get("gender")),
		Year:   year,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]MemberView, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberView(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": out})
}

// createMemberResponse reports the created member plus the partial-success
// fields of the welcome-email path.
type createMemberResponse struct {
	Member       MemberView `json:"member"`
	Warning      string     `json:"warning,omitempty"`
	TempPassword string     `json:"temp_password,omitempty"`
}

func (s *Server) handleAdminCreateMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var form AdminMemberForm
	if !decodeBody(w, r, &form) {
		return
	}
	in, err := createInputFromForm(form)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	res, err := s.Members.Create(r.Context(), caller, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createMemberResponse{
		Member:       memberView(res.Member),
		Warning:      res.Warning,
		TempPassword: res.TempPassword,
	})
}

func (s *Server) handleAdminGetMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	m, err := s.Members.Get(r.Context(), caller, domain.MemberID(chi.URLParam(r, "memberId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberView(m))
}

func (s *Server) handleAdminUpdateMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var form AdminMemberForm
	if !decodeBody(w, r, &form) {
		return
	}
	in, err := updateInputFromForm(form)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	m, err := s.Members.Update(r.Context(), caller, domain.MemberID(chi.URLParam(r, "memberId")), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberView(m))
}

func (s *Server) handleAdminDeleteMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Members.Delete(r.Context(), caller, domain.MemberID(chi.URLParam(r, "memberId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminRequestUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Members.RequestProfileUpdate(r.Context(), caller, domain.MemberID(chi.URLParam(r, "memberId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- statistics ---

type statsResponse struct {
	Headline headlineView `json:"headline"`
	Gender   []bucketView `json:"gender"`
	Marital  []bucketView `json:"marital"`
	Sectors  []bucketView `json:"sectors"`
	Ages     []bucketView `json:"ages"`

	MovementYear   int `json:"movement_year"`
	MovementJoined int `json:"movement_joined"`
	MovementLeft   int `json:"movement_left"`

	StatusYear int          `json:"status_year"`
	Status     headlineView `json:"status"`
}

type headlineView struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Honorary int `json:"honorary"`
	Founder  int `json:"founder"`
	Left     int `json:"left"`
}

type bucketView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func headlineToView(h stats.Headline) headlineView {
	return headlineView(h)
}

func bucketsToView(bs []stats.Bucket) []bucketView {
	out := make([]bucketView, 0, len(bs))
	for _, b := range bs {
		out = append(out, bucketView(b))
	}
	return out
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !caller.IsAdmin {
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin privileges required", nil)
		return
	}

	q := r.URL.Query()
	movementYear, statusYear := 0, 0
	if v := q.Get("movement_year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid movement_year", nil)
			return
		}
		movementYear = n
	}
	if v := q.Get("status_year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid status_year", nil)
			return
		}
		statusYear = n
	}

	ov, err := s.Stats.Snapshot(r.Context(), movementYear, statusYear)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Headline:       headlineToView(ov.Headline),
		Gender:         bucketsToView(ov.Gender),
		Marital:        bucketsToView(ov.Marital),
		Sectors:        bucketsToView(ov.Sectors),
		Ages:           bucketsToView(ov.Ages),
		MovementYear:   ov.MovementYear,
		MovementJoined: ov.MovementJoined,
		MovementLeft:   ov.MovementLeft,
		StatusYear:     ov.StatusYear,
		Status:         headlineToView(ov.Status),
	})
}

// --- member requests ---

type createRequestBody struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body createRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	res, err := s.Requests.Create(r.Context(), sub, requests.CreateInput{
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := map[string]any{"request": requestView(res.Request)}
	if res.Warning != "" {
		resp["warning"] = res.Warning
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMyRequests(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	rs, err := s.Requests.ListMine(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]RequestView, 0, len(rs))
	for _, req := range rs {
		out = append(out, requestView(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

func (s *Server) handleAdminListRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	rows, err := s.Requests.ListAll(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]RequestWithMemberView, 0, len(rows))
	for _, row := range rows {
		out = append(out, requestWithMemberView(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

type replyBody struct {
	Reply string `json:"reply"`
}

func (s *Server) handleAdminReplyRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body replyBody
	if !decodeBody(w, r, &body) {
		return
	}
	res, err := s.Requests.Reply(r.Context(), caller, domain.RequestID(chi.URLParam(r, "requestId")), body.Reply)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := map[string]any{"request": requestView(res.Request)}
	if res.Warning != "" {
		resp["warning"] = res.Warning
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminDeleteRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Requests.Delete(r.Context(), caller, domain.RequestID(chi.URLParam(r, "requestId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- settings ---

func (s *Server) handleGetKVKKText(w http.ResponseWriter, r *http.Request) {
	text, err := s.Settings.GetKVKKText(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type kvkkBody struct {
	Text string `json:"text"`
}

func (s *Server) handleUpdateKVKKText(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body kvkkBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.Settings.UpdateKVKKText(r.Context(), caller, body.Text); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- password reset (public) ---

type resetRequestBody struct {
	Email string `json:"email"`
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var body resetRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.Reset.Request(r.Context(), body.Email); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) handleResetVerify(w http.ResponseWriter, r *http.Request) {
	var body resetVerifyBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.Reset.Verify(r.Context(), body.Email, body.Code); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetConfirmBody struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var body resetConfirmBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.Reset.Confirm(r.Context(), body.Email, body.Code, body.NewPassword); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
