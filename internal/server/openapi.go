package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Treasure Hunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the live treasure hunt quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/teams
	postTeams, _ := r.NewOperationContext(http.MethodPost, "/api/teams")
	postTeams.SetSummary("Register a team")
	postTeams.SetDescription("Creates a team with a unique name and 4-digit pin. Returns the session token.")
	postTeams.AddReqStructure(TeamCreateRequest{})
	postTeams.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTeams)

	// POST /api/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/join")
	postJoin.SetSummary("Join a team")
	postJoin.SetDescription("Rejoin an existing team using its name and pin. Optionally registers a player.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postJoin)

	// POST /api/players
	postPlayers, _ := r.NewOperationContext(http.MethodPost, "/api/players")
	postPlayers.SetSummary("Register a player")
	postPlayers.SetDescription("Adds a player to the unassigned pool for later team assignment.")
	postPlayers.AddReqStructure(PlayerCreateRequest{})
	postPlayers.AddRespStructure(PlayerCreateResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postPlayers)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the team's current question, revealed hints, and score. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/hint
	postHint, _ := r.NewOperationContext(http.MethodPost, "/api/game/hint")
	postHint.SetSummary("Reveal a hint")
	postHint.SetDescription("Reveals the next hint for the current question, lowering its point value. Requires Bearer token.")
	postHint.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postHint)

	// POST /api/game/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/game/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Submits the answer for the current question. Advances regardless of correctness. Requires Bearer token.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("Team event stream")
	getEvents.SetDescription("Server-Sent Events stream of team activity. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns ranked team standings for the TV display. Public.")
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBoard)

	// GET /api/leaderboard/events
	getBoardEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getBoardEvents.SetSummary("Leaderboard event stream")
	getBoardEvents.SetDescription("Server-Sent Events stream nudging displays to refresh the leaderboard. Public.")
	getBoardEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getBoardEvents)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with the admin password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Admin session check")
	getMe.SetDescription("Reports whether the admin_session cookie is valid.")
	getMe.AddRespStructure(AdminSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.SetDescription("Returns all questions with answers and options. Requires admin_session cookie.")
	listQuestions.AddRespStructure([]AdminQuestionDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listQuestions)

	// POST /api/admin/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions")
	createQuestion.SetSummary("Create question")
	createQuestion.SetDescription("Appends a question to the hunt. Requires admin_session cookie.")
	createQuestion.AddReqStructure(AdminQuestionRequest{})
	createQuestion.AddRespStructure(AdminQuestionDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createQuestion)

	// DELETE /api/admin/questions
	deleteAll, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions")
	deleteAll.SetSummary("Delete all questions")
	deleteAll.SetDescription("Removes every question. Requires admin_session cookie.")
	deleteAll.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteAll.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteAll)

	// DELETE /api/admin/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions/{id}")
	deleteQuestion.SetSummary("Delete question")
	deleteQuestion.SetDescription("Removes one question and its options. Requires admin_session cookie.")
	deleteQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteQuestion)

	// POST /api/admin/questions/import
	importQuestions, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions/import")
	importQuestions.SetSummary("Bulk import questions")
	importQuestions.SetDescription("Imports questions from an XML document. mode=append or mode=replace. Requires admin_session cookie.")
	importQuestions.AddRespStructure(ImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	importQuestions.AddRespStructure(ImportErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importQuestions.AddRespStructure(ImportErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	importQuestions.AddRespStructure(ImportErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(importQuestions)

	// GET /api/admin/questions/template
	getTemplate, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions/template")
	getTemplate.SetSummary("Download import template")
	getTemplate.SetDescription("Returns the XML starter document for bulk imports. Requires admin_session cookie.")
	getTemplate.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("application/xml"))
	_ = r.AddOperation(getTemplate)

	// GET /api/admin/teams
	listTeams, _ := r.NewOperationContext(http.MethodGet, "/api/admin/teams")
	listTeams.SetSummary("List teams")
	listTeams.SetDescription("Returns all teams with pins, progress, and player counts. Requires admin_session cookie.")
	listTeams.AddRespStructure([]AdminTeamItem{}, openapi.WithHTTPStatus(http.StatusOK))
	listTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listTeams)

	// POST /api/admin/teams/{id}/reset
	resetTeam, _ := r.NewOperationContext(http.MethodPost, "/api/admin/teams/{id}/reset")
	resetTeam.SetSummary("Reset team")
	resetTeam.SetDescription("Sends a team back to question one with zero score. Requires admin_session cookie.")
	resetTeam.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	resetTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	resetTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(resetTeam)

	// DELETE /api/admin/teams/{id}
	deleteTeam, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/teams/{id}")
	deleteTeam.SetSummary("Delete team")
	deleteTeam.SetDescription("Removes a team; its players return to the unassigned pool. Requires admin_session cookie.")
	deleteTeam.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteTeam)

	// GET /api/admin/players
	listPlayers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/players")
	listPlayers.SetSummary("List players")
	listPlayers.SetDescription("Returns all players with their team assignment. Requires admin_session cookie.")
	listPlayers.AddRespStructure([]AdminPlayerItem{}, openapi.WithHTTPStatus(http.StatusOK))
	listPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listPlayers)

	// DELETE /api/admin/players/{id}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/players/{id}")
	deletePlayer.SetSummary("Delete player")
	deletePlayer.SetDescription("Removes a player. Requires admin_session cookie.")
	deletePlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deletePlayer)

	// POST /api/admin/players/{id}/unassign
	unassignPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/admin/players/{id}/unassign")
	unassignPlayer.SetSummary("Unassign player")
	unassignPlayer.SetDescription("Returns a player to the unassigned pool. Requires admin_session cookie.")
	unassignPlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	unassignPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	unassignPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(unassignPlayer)

	// POST /api/admin/players/assign
	assignPlayers, _ := r.NewOperationContext(http.MethodPost, "/api/admin/players/assign")
	assignPlayers.SetSummary("Assign pooled players")
	assignPlayers.SetDescription("Shuffles unassigned players and deals them round-robin across teams. Requires admin_session cookie.")
	assignPlayers.AddRespStructure(AssignPlayersResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	assignPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	assignPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(assignPlayers)

	// POST /api/admin/uploads
	postUpload, _ := r.NewOperationContext(http.MethodPost, "/api/admin/uploads")
	postUpload.SetSummary("Upload media")
	postUpload.SetDescription("Stores an image or audio file and returns its /uploads/ URL. Requires admin_session cookie.")
	postUpload.AddRespStructure(UploadResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postUpload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postUpload)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
