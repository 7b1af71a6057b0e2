package app

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository/repositorytest"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
	app      *App
	products *repositorytest.ProductRepository
}

func setupTestConfig(uploadDir string) *config.Config {
	return &config.Config{
		ServiceName:      "product-catalog-service-test",
		ServicePort:      "0",
		MetricsPort:      "0",
		RunMigrations:    true,
		CORSAllowOrigins: []string{"*"},
		StorageConfig: config.StorageConfig{
			UploadDir:     uploadDir,
			MaxUploadSize: "1K",
		},
	}
}

func (s *AppTestSuite) SetupTest() {
	s.products = repositorytest.NewProductRepository()
	s.app = &App{
		Config:     setupTestConfig(s.T().TempDir()),
		Products:   s.products,
		Migrations: repositorytest.NewMigrationRepository(),
	}

	s.Require().NoError(s.app.Setup())
}

func (s *AppTestSuite) TearDownTest() {
	s.NoError(s.app.StopServer())
}

func (s *AppTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.app.Server.ServeHTTP(rec, req)

	return rec
}

func (s *AppTestSuite) Test_Ping() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/ping", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"pong"}`, rec.Body.String())
}

func (s *AppTestSuite) Test_MigrationsSeedSampleProduct() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/produto?productName=Produto+Exemplo", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"productPrice":99.99`)
	s.Equal(1, s.products.Len())
}

func (s *AppTestSuite) Test_ServesStoredImages() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.app.Images.Dir(), "01J9ZK.png"), []byte("png-bytes"), 0644))

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/images/01J9ZK.png", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("png-bytes", rec.Body.String())

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *AppTestSuite) Test_BodyLimit() {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("productImage", "big.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte(strings.Repeat("x", 4096)))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/produto", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := s.serve(req)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Contains(rec.Body.String(), "Imagem excede o tamanho máximo permitido")
}

func (s *AppTestSuite) Test_CORS() {
	req := httptest.NewRequest(http.MethodOptions, "/produto", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := s.serve(req)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	req = httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec = s.serve(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *AppTestSuite) Test_UnknownRoute() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/nao-existe", nil))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), `"status":"error"`)
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}
