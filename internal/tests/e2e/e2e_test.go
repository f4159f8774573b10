package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"log/slog"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/domain/models"
	"shadow-raffle/internal/handlers"
	"shadow-raffle/internal/lib/jwt"
	"shadow-raffle/internal/middlewares"
	"shadow-raffle/internal/repository"
	"shadow-raffle/internal/routes"
	"shadow-raffle/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*userRecord
	prizes  []*prizeRecord
	winners []winnerRecord
	ledger  []ledgerRecord
}

type userRecord struct {
	nickname  string
	telegram  string
	siteURL   string
	passHash  string
	balance   int
	createdAt time.Time
	lastLogin *time.Time
}

type prizeRecord struct {
	id          uuid.UUID
	name        string
	image       string
	description string
	price       int
	available   bool
	createdAt   time.Time
}

type winnerRecord struct {
	userID  uuid.UUID
	prizeID uuid.UUID
	spent   int
	wonAt   time.Time
}

type ledgerRecord struct {
	userID    uuid.UUID
	amount    int
	reason    string
	adminID   *uuid.UUID
	createdAt time.Time
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{users: make(map[uuid.UUID]*userRecord)}
}

func (s *memoryStorage) seedPrize(name string, price int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &prizeRecord{
		id:        uuid.New(),
		name:      name,
		image:     "/static/img/" + name + ".png",
		price:     price,
		available: true,
		createdAt: time.Now(),
	}
	s.prizes = append(s.prizes, p)
	return p.id
}

func (s *memoryStorage) setBalance(nickname string, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.nickname == nickname {
			user.balance = balance
		}
	}
}

func (s *memoryStorage) userDTO(id uuid.UUID, u *userRecord) dto.UserDTO {
	return dto.UserDTO{
		ID:       id,
		Nickname: u.nickname,
		Telegram: u.telegram,
		SiteURL:  u.siteURL,
		Balance:  u.balance,
	}
}

func (s *memoryStorage) SaveUser(ctx context.Context, nickname, passHash, telegram, siteURL string, startingBalance int) (dto.UserDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.nickname == nickname {
			return dto.UserDTO{}, repository.ErrUserAlreadyExists
		}
		if telegram != "" && user.telegram == telegram {
			return dto.UserDTO{}, repository.ErrContactTaken
		}
		if siteURL != "" && user.siteURL == siteURL {
			return dto.UserDTO{}, repository.ErrContactTaken
		}
	}

	id := uuid.New()
	s.users[id] = &userRecord{
		nickname:  nickname,
		telegram:  telegram,
		siteURL:   siteURL,
		passHash:  passHash,
		balance:   startingBalance,
		createdAt: time.Now(),
	}
	if startingBalance > 0 {
		s.ledger = append(s.ledger, ledgerRecord{
			userID: id, amount: startingBalance, reason: "starting grant", createdAt: time.Now(),
		})
	}

	return s.userDTO(id, s.users[id]), nil
}

func (s *memoryStorage) GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if user.nickname == nickname {
			return s.userDTO(id, user), user.passHash, nil
		}
	}
	return dto.UserDTO{}, "", repository.ErrUserNotFound
}

func (s *memoryStorage) GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return dto.UserDTO{}, repository.ErrUserNotFound
	}
	return s.userDTO(userID, user), nil
}

func (s *memoryStorage) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		now := time.Now()
		user.lastLogin = &now
	}
	return nil
}

func (s *memoryStorage) CountAvailablePrizes(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.prizes {
		if p.available {
			count++
		}
	}
	return count, nil
}

// DrawPrize повторяет контракт стора: одна попытка меняет состояние целиком
// или не меняет вовсе, все проверки под одним замком.
func (s *memoryStorage) DrawPrize(ctx context.Context, userID uuid.UUID, flatCost int, singleWin bool) (repository.DrawOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return repository.DrawOutcome{}, repository.ErrUserNotFound
	}

	if singleWin {
		for _, w := range s.winners {
			if w.userID == userID {
				return repository.DrawOutcome{}, repository.ErrAlreadyWon
			}
		}
	}

	var prize *prizeRecord
	for _, p := range s.prizes {
		if p.available {
			prize = p
			break
		}
	}
	if prize == nil {
		return repository.DrawOutcome{}, repository.ErrPoolExhausted
	}

	cost := flatCost
	if flatCost > 0 && prize.price > 0 {
		cost = prize.price
	}
	if cost > 0 && user.balance < cost {
		return repository.DrawOutcome{}, repository.ErrInsufficientFunds
	}

	prize.available = false
	user.balance -= cost
	if cost > 0 {
		s.ledger = append(s.ledger, ledgerRecord{
			userID: userID, amount: -cost, reason: prize.name, createdAt: time.Now(),
		})
	}
	s.winners = append(s.winners, winnerRecord{
		userID: userID, prizeID: prize.id, spent: cost, wonAt: time.Now(),
	})

	return repository.DrawOutcome{
		Prize:      dto.PrizeSummary{ID: prize.id, Name: prize.name, Image: prize.image},
		Spent:      cost,
		NewBalance: user.balance,
	}, nil
}

func (s *memoryStorage) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int, reason string, adminID *uuid.UUID, balanceCeiling int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	if delta < 0 && user.balance+delta < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	if delta > 0 && balanceCeiling > 0 && user.balance+delta > balanceCeiling {
		return 0, repository.ErrBalanceCeiling
	}

	user.balance += delta
	s.ledger = append(s.ledger, ledgerRecord{
		userID: userID, amount: delta, reason: reason, adminID: adminID, createdAt: time.Now(),
	})
	return user.balance, nil
}

func (s *memoryStorage) AddPrize(ctx context.Context, name, image, description string, price int) (dto.PrizeDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &prizeRecord{
		id: uuid.New(), name: name, image: image, description: description,
		price: price, available: true, createdAt: time.Now(),
	}
	s.prizes = append(s.prizes, p)

	return dto.PrizeDTO{ID: p.id, Name: name, Image: image, Description: description, Price: price}, nil
}

func (s *memoryStorage) ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []dto.PrizeDTO
	for _, p := range s.prizes {
		if p.available {
			result = append(result, dto.PrizeDTO{
				ID: p.id, Name: p.name, Image: p.image, Description: p.description, Price: p.price,
			})
		}
	}
	return result, nil
}

func (s *memoryStorage) ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []dto.PublicWinnerDTO
	for i := len(s.winners) - 1; i >= 0 && len(result) < limit; i-- {
		w := s.winners[i]
		result = append(result, dto.PublicWinnerDTO{
			Nickname:  s.users[w.userID].nickname,
			PrizeName: s.prizeName(w.prizeID),
			WonAt:     w.wonAt,
		})
	}
	return result, nil
}

func (s *memoryStorage) ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []dto.UserWinDTO
	for _, w := range s.winners {
		if w.userID == userID {
			result = append(result, dto.UserWinDTO{PrizeName: s.prizeName(w.prizeID), WonAt: w.wonAt})
		}
	}
	return result, nil
}

func (s *memoryStorage) prizeName(prizeID uuid.UUID) string {
	for _, p := range s.prizes {
		if p.id == prizeID {
			return p.name
		}
	}
	return ""
}

func (s *memoryStorage) ListAllUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.User
	for id, u := range s.users {
		result = append(result, models.User{
			ID: id, Nickname: u.nickname, Telegram: u.telegram, SiteURL: u.siteURL,
			Balance: u.balance, CreatedAt: u.createdAt, LastLoginAt: u.lastLogin,
		})
	}
	return result, nil
}

func (s *memoryStorage) ListAllPrizes(ctx context.Context) ([]models.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Prize
	for _, p := range s.prizes {
		result = append(result, models.Prize{
			ID: p.id, Name: p.name, Image: p.image, Description: p.description,
			Price: p.price, Available: p.available, CreatedAt: p.createdAt,
		})
	}
	return result, nil
}

func (s *memoryStorage) ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.CoinTransaction
	for _, tx := range s.ledger {
		if userID != nil && tx.userID != *userID {
			continue
		}
		result = append(result, models.CoinTransaction{
			ID: uuid.New(), UserID: tx.userID, Amount: tx.amount, Reason: tx.reason,
			AdminID: tx.adminID, CreatedAt: tx.createdAt,
		})
	}
	return result, nil
}

func (s *memoryStorage) GetStats(ctx context.Context, topN int) (dto.StatsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := dto.StatsResponse{TotalUsers: len(s.users), TotalWinners: len(s.winners)}
	for _, p := range s.prizes {
		if p.available {
			stats.PrizesRemaining++
		}
	}
	for _, u := range s.users {
		stats.TotalBalance += u.balance
	}
	return stats, nil
}

type memoryRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{store: make(map[string]string)}
}

func (r *memoryRedis) StoreRefreshToken(userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[refreshToken] = userID
	return nil
}

func (r *memoryRedis) GetRefreshToken(refreshToken string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.store[refreshToken]
	if !ok {
		return "", errors.New("refresh token not found")
	}
	return userID, nil
}

type testServer struct {
	server  *httptest.Server
	storage *memoryStorage
}

func newTestServer(t *testing.T, drawCost int, singleWin bool, adminNicknames ...string) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	storage := newMemoryStorage()
	redisStorage := newMemoryRedis()
	jwtGen := jwt.NewGenerator("secret", time.Minute, 24*time.Hour)

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	authService := services.NewAuthService(log, storage, redisStorage, jwtGen, 1, adminNicknames)
	raffleService := services.NewRaffleService(log, storage, drawCost, singleWin)
	reportService := services.NewReportService(log, storage)
	adminService := services.NewAdminService(log, storage, 100, 1000)

	authHandler := handlers.NewAuthHandler(log, authService)
	raffleHandler := handlers.NewRaffleHandler(log, raffleService, reportService)
	adminHandler := handlers.NewAdminHandler(log, adminService, reportService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)
	router := routes.InitRoutes(authHandler, raffleHandler, adminHandler, authMiddleware)

	return &testServer{server: httptest.NewServer(router), storage: storage}
}

func (s *testServer) close() {
	s.server.Close()
}

func (s *testServer) url(path string) string {
	return s.server.URL + path
}

func (s *testServer) postJSON(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, s.url(path), bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *testServer) getJSON(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

type sessionResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	IsNewUser    bool        `json:"is_new_user"`
	User         dto.UserDTO `json:"user"`
}

func (s *testServer) session(t *testing.T, nickname string) sessionResult {
	t.Helper()

	resp := s.postJSON(t, "/api/auth/session", "", map[string]string{"nickname": nickname})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed sessionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed
}

func (s *testServer) play(t *testing.T, token string) dto.DrawResponse {
	t.Helper()

	resp := s.postJSON(t, "/api/play", token, struct{}{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.DrawResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestSessionAndDrawFlow(t *testing.T) {
	srv := newTestServer(t, 1, true)
	defer srv.close()

	srv.storage.seedPrize("holo card", 0)

	created := srv.session(t, "alice")
	require.True(t, created.IsNewUser)
	require.Equal(t, 1, created.User.Balance)

	result := srv.play(t, created.Token)
	require.True(t, result.Success)
	require.NotNil(t, result.Prize)
	require.Equal(t, "holo card", result.Prize.Name)
	require.NotNil(t, result.NewBalance)
	require.Equal(t, 0, *result.NewBalance)

	returned := srv.session(t, "alice")
	require.False(t, returned.IsNewUser)
	require.Equal(t, 0, returned.User.Balance)

	resp := srv.getJSON(t, "/api/me/wins", created.Token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var wins struct {
		Wins []dto.UserWinDTO `json:"wins"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wins))
	require.Len(t, wins.Wins, 1)
	require.Equal(t, "holo card", wins.Wins[0].PrizeName)
}

func TestConcurrentDrawsForLastPrizeYieldOneWinner(t *testing.T) {
	srv := newTestServer(t, 1, true)
	defer srv.close()

	srv.storage.seedPrize("last card", 0)

	alice := srv.session(t, "alice")
	bob := srv.session(t, "bob")

	// в чужих горутинах нельзя валить тест, поэтому ошибки собираются
	// и проверяются после join
	results := make([]dto.DrawResponse, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, token := range []string{alice.Token, bob.Token} {
		go func(i int, token string) {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, srv.url("/api/play"), bytes.NewReader([]byte("{}")))
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()

			errs[i] = json.NewDecoder(resp.Body).Decode(&results[i])
		}(i, token)
	}
	wg.Wait()

	successes := 0
	for i, r := range results {
		require.NoError(t, errs[i])
		if r.Success {
			successes++
		}
	}
	require.Equal(t, 1, successes)

	count, err := srv.storage.CountAvailablePrizes(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Len(t, srv.storage.winners, 1)
}

func TestRepeatedDrawsExhaustThePool(t *testing.T) {
	srv := newTestServer(t, 1, false)
	defer srv.close()

	srv.storage.seedPrize("card 1", 0)
	srv.storage.seedPrize("card 2", 0)
	srv.storage.seedPrize("card 3", 0)

	alice := srv.session(t, "alice")
	srv.storage.setBalance("alice", 5)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		result := srv.play(t, alice.Token)
		require.True(t, result.Success)
		require.False(t, seen[result.Prize.Name])
		seen[result.Prize.Name] = true
	}

	result := srv.play(t, alice.Token)
	require.False(t, result.Success)
	require.Equal(t, "all prizes are gone", result.Message)

	user, _, err := srv.storage.GetUserByNickname(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, 2, user.Balance)
}

func TestSingleWinPolicyRefusesSecondDraw(t *testing.T) {
	srv := newTestServer(t, 1, true)
	defer srv.close()

	srv.storage.seedPrize("first card", 0)
	srv.storage.seedPrize("second card", 0)

	alice := srv.session(t, "alice")
	srv.storage.setBalance("alice", 5)

	first := srv.play(t, alice.Token)
	require.True(t, first.Success)

	second := srv.play(t, alice.Token)
	require.False(t, second.Success)
	require.Equal(t, "you already claimed your prize: "+first.Prize.Name, second.Message)
}

func TestFreeModeNeverCharges(t *testing.T) {
	srv := newTestServer(t, 0, true)
	defer srv.close()

	srv.storage.seedPrize("priced card", 3)

	alice := srv.session(t, "alice")
	srv.storage.setBalance("alice", 0)

	result := srv.play(t, alice.Token)
	require.True(t, result.Success)
	require.NotNil(t, result.NewBalance)
	require.Equal(t, 0, *result.NewBalance)
}

func TestRefreshTokenFlow(t *testing.T) {
	srv := newTestServer(t, 1, true)
	defer srv.close()

	alice := srv.session(t, "alice")

	resp := srv.postJSON(t, "/api/auth/refresh", "", map[string]string{"refreshToken": alice.RefreshToken})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed sessionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshed))
	require.NotEmpty(t, refreshed.Token)
	require.NotEmpty(t, refreshed.RefreshToken)
	require.Equal(t, alice.User.ID, refreshed.User.ID)

	bad := srv.postJSON(t, "/api/auth/refresh", "", map[string]string{"refreshToken": "not-a-token"})
	defer bad.Body.Close()
	require.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestAdminGrantAndStats(t *testing.T) {
	srv := newTestServer(t, 1, true, "boss")
	defer srv.close()

	boss := srv.session(t, "boss")
	alice := srv.session(t, "alice")

	resp := srv.postJSON(t, "/api/admin/coins/grant", boss.Token,
		map[string]string{"nickname": "alice", "amount": "5", "reason": "contest bonus"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var granted dto.CoinAdjustResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&granted))
	require.True(t, granted.Success)
	require.Equal(t, 6, granted.NewBalance)

	forbidden := srv.postJSON(t, "/api/admin/coins/grant", alice.Token,
		map[string]string{"nickname": "boss", "amount": "5", "reason": "nope"})
	defer forbidden.Body.Close()
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	statsResp := srv.getJSON(t, "/api/admin/stats", boss.Token)
	defer statsResp.Body.Close()
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var stats struct {
		Success bool              `json:"success"`
		Stats   dto.StatsResponse `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	require.True(t, stats.Success)
	require.Equal(t, 2, stats.Stats.TotalUsers)
	require.Equal(t, 7, stats.Stats.TotalBalance)
}
