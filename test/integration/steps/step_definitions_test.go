//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/installment-tracker/backend/config"
	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/infra/dependency"
	"github.com/installment-tracker/backend/internal/integration/adapters"
	"github.com/installment-tracker/backend/internal/integration/persistence"
	"github.com/installment-tracker/backend/internal/integration/persistence/model"
	"github.com/installment-tracker/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()

	suite := godog.TestSuite{
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			Tags:     tags,
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	uri            string
	headers        map[string]string
	client         *http.Client
	response       *response
	db             *mock.Db
	emailAPI       *mock.ApiMock
	tokenService   adapter.TokenService
	accessToken    string
	refreshToken   string
	resetToken     string
	currentUserID  uuid.UUID
	purchaseIDs    []uuid.UUID
	lastPurchaseID uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	injector       *dependency.Injector
	testDB         *mock.Db
	emailAPI       *mock.ApiMock
	testServerPort int
	portInit       sync.Once
)

func initializeEnv() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()

		emailAPI = mock.NewApiServer()
		emailAPI.Start()

		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("JWT_SECRET", testJWTSecret)
		_ = os.Setenv("RESEND_API_KEY", "re_test_key")
		_ = os.Setenv("RESEND_BASE_URL", emailAPI.GetUrl())
		_ = os.Setenv("REDIS_URL", mock.RedisURL())
		_ = os.Setenv("REMINDER_DAYS_AHEAD", "3")
	})
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	initializeEnv()

	testDB = mock.NewDb(model.All()...)

	test := &testContext{
		uri:      fmt.Sprintf("http://localhost:%d", testServerPort),
		client:   &http.Client{Timeout: 10 * time.Second},
		db:       testDB,
		emailAPI: emailAPI,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, test.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^a password reset token exists for "([^"]*)"$`, test.aPasswordResetTokenExistsFor)

	// Purchase setup steps
	ctx.Given(`^I have a purchase "([^"]*)" of "([^"]*)" in (\d+) installments starting "([^"]*)"$`, test.iHaveAPurchase)
	ctx.Given(`^I have a purchase "([^"]*)" of "([^"]*)" in (\d+) installments starting (\d+) months ago$`, test.iHaveAPurchaseMonthsAgo)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Background job steps
	ctx.When(`^the installment reminders are sent$`, test.theInstallmentRemindersAreSent)
	ctx.When(`^the email queue is processed$`, test.theEmailQueueIsProcessed)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, test.theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)

	// Email provider assertion steps
	ctx.Then(`^the email provider should have received (\d+) emails?$`, test.theEmailProviderShouldHaveReceived)
	ctx.Then(`^the last email should be sent to "([^"]*)" with subject containing "([^"]*)"$`, test.theLastEmailShouldBeSentTo)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.resetToken = ""
	t.currentUserID = uuid.Nil
	t.purchaseIDs = nil
	t.lastPurchaseID = uuid.Nil

	t.emailAPI.Clear()
	t.emailAPI.SetResponse(http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "re_mock"})

	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	return t.db.ClearDB()
}

func (t *testContext) startServer() error {
	var startErr error
	serverInit.Do(func() {
		gin.SetMode(gin.TestMode)

		cfg := config.Load()
		injector, startErr = dependency.NewInjector(cfg, testDB.DbConn, mock.NewRedis())
		if startErr != nil {
			return
		}

		engine := injector.Router.Setup("test")
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if startErr != nil {
		return startErr
	}
	if injector == nil {
		return errors.New("server failed to initialize")
	}

	t.tokenService = adapters.NewTokenService(adapters.TokenConfig{
		Secret:     injector.Config.JWT.Secret,
		Issuer:     injector.Config.JWT.Issuer,
		AccessTTL:  injector.Config.JWT.AccessTokenExpiry,
		RefreshTTL: injector.Config.JWT.RefreshTokenExpiry,
	}, persistence.NewTokenRepository(testDB.DbConn))

	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("server did not become healthy")
}

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func (t *testContext) aUserExistsWithEmail(email string) error {
	return t.createUser(email, "DefaultPass123!", "Test User")
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	return t.createUser(email, password, "Test User")
}

func (t *testContext) createUser(email, password, name string) error {
	userID := uuid.New()
	t.currentUserID = userID

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:             userID,
		Email:          email,
		Name:           name,
		PasswordHash:   hashPassword(password),
		EmailReminders: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return t.db.DbConn.Create(user).Error
}

func hashPassword(password string) string {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash password: %v", err))
	}
	return string(hashedBytes)
}

// iAmLoggedInAs creates the user when missing and issues a real token pair.
func (t *testContext) iAmLoggedInAs(email string) error {
	var user model.UserModel
	err := t.db.DbConn.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := t.createUser(email, "SecurePass123!", "Test User"); err != nil {
			return err
		}
		err = t.db.DbConn.Where("email = ?", email).First(&user).Error
	}
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	t.currentUserID = user.ID

	pair, err := t.tokenService.GenerateTokenPair(context.Background(), user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate tokens: %w", err)
	}
	t.accessToken = pair.AccessToken
	t.refreshToken = pair.RefreshToken
	return nil
}

func (t *testContext) aPasswordResetTokenExistsFor(email string) error {
	var user model.UserModel
	if err := t.db.DbConn.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	resetService := adapters.NewPasswordResetTokenService(persistence.NewTokenRepository(t.db.DbConn), time.Hour)
	token, err := resetService.GenerateResetToken(context.Background(), user.ID, email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	t.resetToken = token.Token
	return nil
}

func (t *testContext) iHaveAPurchase(description, amount string, installments int, startDate string) error {
	body := fmt.Sprintf(`{
		"description": %q,
		"category": "electronics",
		"cardName": "Visa",
		"amount": %q,
		"installments": %d,
		"interestRate": 0,
		"startDate": %q
	}`, description, amount, installments, startDate)

	if err := t.executeRequest(http.MethodPost, "/api/v1/purchases", []byte(body)); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("failed to create purchase: status %d (body: %v)", t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) iHaveAPurchaseMonthsAgo(description, amount string, installments, months int) error {
	start := time.Now().UTC().AddDate(0, -months, 0)
	return t.iHaveAPurchase(description, amount, installments, start.Format(time.DateOnly))
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{reset_token}}", t.resetToken)
	content = strings.ReplaceAll(content, "{{purchase_id}}", t.lastPurchaseID.String())
	content = strings.ReplaceAll(content, "{{random_id}}", uuid.NewString())

	// {{purchase_id_N}} addresses purchases in creation order, starting at 1
	for i, id := range t.purchaseIDs {
		content = strings.ReplaceAll(content, fmt.Sprintf("{{purchase_id_%d}}", i+1), id.String())
	}

	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture purchase IDs from create responses
	if method == http.MethodPost && resp.StatusCode == http.StatusCreated {
		if _, isPurchase := responseBody["monthlyPayment"]; isPurchase {
			if id, err := uuid.Parse(fmt.Sprint(responseBody["id"])); err == nil {
				t.lastPurchaseID = id
				t.purchaseIDs = append(t.purchaseIDs, id)
			}
		}
	}

	// Capture tokens from auth responses
	if token, ok := responseBody["accessToken"].(string); ok {
		t.accessToken = token
	}
	if token, ok := responseBody["refreshToken"].(string); ok {
		t.refreshToken = token
	}

	return nil
}

func (t *testContext) theInstallmentRemindersAreSent() error {
	if injector.Reminders == nil {
		return errors.New("reminder job is disabled")
	}
	if _, err := injector.Reminders.Execute(context.Background()); err != nil {
		return err
	}
	return t.theEmailQueueIsProcessed()
}

func (t *testContext) theEmailQueueIsProcessed() error {
	injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, t.replacePlaceholders(field))
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	expectedValue = t.replacePlaceholders(expectedValue)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' expected to be absent, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	var count int64
	if err := t.db.DbConn.Model(entity).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	if err := query.Find(entitySlicePtr.Interface()).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceived(count int) error {
	received := t.emailAPI.GetRequests(http.MethodPost, "/emails")
	if len(received) != count {
		return fmt.Errorf("expected %d emails, got %d: %v", count, len(received), received)
	}
	return nil
}

func (t *testContext) theLastEmailShouldBeSentTo(recipient, subject string) error {
	received := t.emailAPI.GetRequests(http.MethodPost, "/emails")
	if len(received) == 0 {
		return errors.New("no emails received")
	}
	last := received[len(received)-1]

	to := fmt.Sprint(getFieldValue(last, "to.0"))
	if to != recipient {
		return fmt.Errorf("expected email to '%s', got '%s'", recipient, to)
	}
	actualSubject := fmt.Sprint(last["subject"])
	if !strings.Contains(actualSubject, subject) {
		return fmt.Errorf("expected subject containing '%s', got '%s'", subject, actualSubject)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	var field any = objectMap
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
