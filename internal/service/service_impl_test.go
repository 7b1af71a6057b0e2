package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/filestore"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/filestore/filestoretest"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository/repositorytest"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	messages []dto.KafkaMessage
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keys = append(p.keys, key)
	p.messages = append(p.messages, message.(dto.KafkaMessage))

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		types = append(types, m.EventType)
	}

	return types
}

type ProductServiceTestSuite struct {
	suite.Suite
	repo      *repositorytest.ProductRepository
	images    *filestore.LocalImageStore
	publisher *recordingPublisher
	svc       ProductService
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.repo = repositorytest.NewProductRepository()
	s.images = filestore.NewLocalImageStore(s.T().TempDir())
	s.publisher = &recordingPublisher{}
	s.svc = CreateProductService(s.repo, s.images, s.publisher)
}

func (s *ProductServiceTestSuite) storedFiles() []string {
	entries, err := os.ReadDir(s.images.Dir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	s.Require().NoError(err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

func (s *ProductServiceTestSuite) addProduct(name string) dto.ProductResponse {
	price := 99.99
	resp, err := s.svc.AddProduct(context.Background(), dto.ProductRequest{
		Name:        name,
		Price:       &price,
		Description: "Descrição do produto teste",
		Image:       filestoretest.FileHeader(s.T(), "foto.png", []byte("png-bytes")),
	})
	s.Require().NoError(err)

	return resp
}

func (s *ProductServiceTestSuite) Test_AddProduct() {
	resp := s.addProduct("Produto Teste")

	s.NotEmpty(resp.ID)
	s.Require().NotNil(resp.Image)
	s.Equal(".png", filepath.Ext(*resp.Image))
	s.Require().NotNil(resp.ImageURL)
	s.Equal("/images/"+*resp.Image, *resp.ImageURL)
	s.Equal([]string{*resp.Image}, s.storedFiles())
	s.Equal([]string{dto.EventAddProduct}, s.publisher.eventTypes())
	s.Equal([]string{resp.ID}, s.publisher.keys)
}

func (s *ProductServiceTestSuite) Test_AddProduct_Rejected() {
	price := 10.0

	type TestCase struct {
		Name        string
		Request     dto.ProductRequest
		ExpectedErr error
	}

	testCases := []TestCase{
		{
			Name:        "Missing image",
			Request:     dto.ProductRequest{Name: "Produto", Price: &price, Description: "d"},
			ExpectedErr: errs.ErrImageRequired,
		},
		{
			Name: "Not an image",
			Request: dto.ProductRequest{
				Name: "Produto", Price: &price, Description: "d",
				Image: filestoretest.FileHeader(s.T(), "notas.txt", []byte("text")),
			},
			ExpectedErr: errs.ErrNotAnImage,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			_, err := s.svc.AddProduct(context.Background(), tc.Request)
			s.ErrorIs(err, tc.ExpectedErr)
		})
	}

	s.Equal(0, s.repo.Len())
	s.Empty(s.storedFiles())
	s.Empty(s.publisher.eventTypes())
}

func (s *ProductServiceTestSuite) Test_AddProduct_RepositoryFailureRemovesImage() {
	s.repo.AddErr = errors.New("database unavailable")
	price := 10.0

	_, err := s.svc.AddProduct(context.Background(), dto.ProductRequest{
		Name: "Produto", Price: &price, Description: "d",
		Image: filestoretest.FileHeader(s.T(), "foto.jpg", []byte("jpg")),
	})

	s.Error(err)
	s.Empty(s.storedFiles())
	s.Empty(s.publisher.eventTypes())
}

func (s *ProductServiceTestSuite) Test_AddProduct_PublishFailureIsSwallowed() {
	s.publisher.err = errors.New("broker down")

	resp := s.addProduct("Produto Teste")

	s.NotEmpty(resp.ID)
	s.Equal(1, s.repo.Len())
}

func (s *ProductServiceTestSuite) Test_UpdateProduct_ReplacesImage() {
	created := s.addProduct("Produto Atualizar")
	newPrice := 69.99

	updated, err := s.svc.UpdateProduct(context.Background(), dto.UpdateProductRequest{
		ID:    created.ID,
		Price: &newPrice,
		Image: filestoretest.FileHeader(s.T(), "nova.webp", []byte("webp")),
	})
	s.Require().NoError(err)

	s.Equal("Produto Atualizar", updated.Name)
	s.Equal(69.99, updated.Price)
	s.Require().NotNil(updated.Image)
	s.NotEqual(*created.Image, *updated.Image)
	s.Equal([]string{*updated.Image}, s.storedFiles())
	s.Equal([]string{dto.EventAddProduct, dto.EventUpdateProduct}, s.publisher.eventTypes())
}

func (s *ProductServiceTestSuite) Test_UpdateProduct_KeepsImageWithoutUpload() {
	created := s.addProduct("Produto")
	name := "Produto Renomeado"

	updated, err := s.svc.UpdateProduct(context.Background(), dto.UpdateProductRequest{ID: created.ID, Name: &name})
	s.Require().NoError(err)

	s.Equal(name, updated.Name)
	s.Equal(created.Image, updated.Image)
	s.Equal([]string{*created.Image}, s.storedFiles())
}

func (s *ProductServiceTestSuite) Test_UpdateProduct_EmptyUpdateIsNoop() {
	created := s.addProduct("Produto")

	updated, err := s.svc.UpdateProduct(context.Background(), dto.UpdateProductRequest{ID: created.ID})
	s.Require().NoError(err)

	s.Equal(created, updated)
	s.Equal([]string{dto.EventAddProduct}, s.publisher.eventTypes())

	_, err = s.svc.UpdateProduct(context.Background(), dto.UpdateProductRequest{ID: primitive.NewObjectID().Hex()})
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *ProductServiceTestSuite) Test_UpdateProduct_NotFound() {
	s.addProduct("Produto")

	_, err := s.svc.UpdateProduct(context.Background(), dto.UpdateProductRequest{
		ID:    primitive.NewObjectID().Hex(),
		Image: filestoretest.FileHeader(s.T(), "nova.png", []byte("png")),
	})

	s.ErrorIs(err, errs.ErrNotFound)
	s.Len(s.storedFiles(), 1)
}

func (s *ProductServiceTestSuite) Test_DeleteProduct() {
	created := s.addProduct("Produto Excluir")

	deleted, err := s.svc.DeleteProduct(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, deleted.ID)
	s.Empty(s.storedFiles())
	s.Equal(0, s.repo.Len())
	s.Equal([]string{dto.EventAddProduct, dto.EventDeleteProduct}, s.publisher.eventTypes())

	_, err = s.svc.DeleteProduct(context.Background(), created.ID)
	s.ErrorIs(err, errs.ErrNotFound)

	_, err = s.svc.DeleteProduct(context.Background(), "nao-existe")
	s.ErrorIs(err, errs.ErrInvalidID)
}

func (s *ProductServiceTestSuite) Test_DeleteProduct_MissingImageFile() {
	created := s.addProduct("Produto")
	s.Require().NoError(os.Remove(filepath.Join(s.images.Dir(), *created.Image)))

	_, err := s.svc.DeleteProduct(context.Background(), created.ID)
	s.NoError(err)
}

func (s *ProductServiceTestSuite) Test_GetProducts() {
	a := s.addProduct("Produto A")
	s.addProduct("Produto B")

	found, err := s.svc.GetProductByID(context.Background(), a.ID)
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)

	byName, err := s.svc.GetProductsByName(context.Background(), "Produto A")
	s.Require().NoError(err)
	s.Require().Len(byName, 1)
	s.Equal(a.ID, byName[0].ID)

	none, err := s.svc.GetProductsByName(context.Background(), "Produto")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	all, err := s.svc.GetProducts(context.Background())
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ProductServiceTestSuite) Test_GetProductByID_Seeded() {
	seeded := domain.Product{ID: primitive.NewObjectID(), Name: "Produto Exemplo", Price: 99.99}
	svc := CreateProductService(repositorytest.NewProductRepository(seeded), s.images, nil)

	found, err := svc.GetProductByID(context.Background(), seeded.ID.Hex())
	s.Require().NoError(err)
	s.Nil(found.ImageURL)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
