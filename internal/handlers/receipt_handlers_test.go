package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubops/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockMinioService mocks the MinioService interface for testing
type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadReceipt(ctx context.Context, paymentID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, paymentID, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) StatReceipt(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockMinioService) GetReceiptURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteReceipt(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ReceiptHandlersTestSuite struct {
	suite.Suite
	mockMinio *MockMinioService
	handlers  *ReceiptHandlers
	echo      *echo.Echo
	paymentID uuid.UUID
}

func TestReceiptHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptHandlersTestSuite))
}

func (suite *ReceiptHandlersTestSuite) SetupTest() {
	suite.mockMinio = &MockMinioService{}
	suite.handlers = NewReceiptHandlers(suite.mockMinio)
	suite.echo = echo.New()
	suite.paymentID = uuid.New()
}

func (suite *ReceiptHandlersTestSuite) TearDownTest() {
	suite.mockMinio.AssertExpectations(suite.T())
}

func (suite *ReceiptHandlersTestSuite) getContext(paymentID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetPath("/payments/:id/receipt")
	c.SetParamNames("id")
	c.SetParamValues(paymentID)
	return c, rec
}

func (suite *ReceiptHandlersTestSuite) TestGetReceiptURL_Success() {
	objectName := "receipts/" + suite.paymentID.String()
	suite.mockMinio.On("StatReceipt", mock.Anything, objectName).Return(nil)
	suite.mockMinio.On("GetReceiptURL", mock.Anything, objectName, receiptURLExpiry).
		Return("https://storage.example/signed", nil)

	c, rec := suite.getContext(suite.paymentID.String())
	assert.NoError(suite.T(), suite.handlers.GetReceiptURL(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "https://storage.example/signed")
}

// A URL must never be handed out for a receipt that was never uploaded.
func (suite *ReceiptHandlersTestSuite) TestGetReceiptURL_MissingObjectIs404() {
	objectName := "receipts/" + suite.paymentID.String()
	suite.mockMinio.On("StatReceipt", mock.Anything, objectName).
		Return(errors.New("The specified key does not exist"))

	c, rec := suite.getContext(suite.paymentID.String())
	assert.NoError(suite.T(), suite.handlers.GetReceiptURL(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "NOT_FOUND")
	suite.mockMinio.AssertNotCalled(suite.T(), "GetReceiptURL", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReceiptHandlersTestSuite) TestGetReceiptURL_InvalidPaymentID() {
	c, rec := suite.getContext("not-a-uuid")
	assert.NoError(suite.T(), suite.handlers.GetReceiptURL(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "VALIDATION_ERROR")
}

func (suite *ReceiptHandlersTestSuite) uploadContext(paymentID string, authenticated bool) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "receipt.pdf")
	assert.NoError(suite.T(), err)
	_, err = part.Write([]byte("%PDF-1.4 receipt"))
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if authenticated {
		ctx := context.WithValue(req.Context(), common.UserIDKey, uuid.New())
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetPath("/payments/:id/receipt")
	c.SetParamNames("id")
	c.SetParamValues(paymentID)
	return c, rec
}

func (suite *ReceiptHandlersTestSuite) TestUploadReceipt_Success() {
	objectName := "receipts/" + suite.paymentID.String()
	suite.mockMinio.On("UploadReceipt", mock.Anything, suite.paymentID, mock.Anything, mock.Anything, mock.Anything).
		Return(objectName, nil)

	c, rec := suite.uploadContext(suite.paymentID.String(), true)
	assert.NoError(suite.T(), suite.handlers.UploadReceipt(c))
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), objectName)
}

func (suite *ReceiptHandlersTestSuite) TestUploadReceipt_Unauthenticated() {
	c, rec := suite.uploadContext(suite.paymentID.String(), false)
	assert.NoError(suite.T(), suite.handlers.UploadReceipt(c))
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	suite.mockMinio.AssertNotCalled(suite.T(), "UploadReceipt",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
