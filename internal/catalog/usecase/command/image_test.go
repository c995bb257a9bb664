package command

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/pkg/apperror"
	blobmemory "github.com/tair/catalog-admin/pkg/blobstore/memory"
)

func TestUploadImages(t *testing.T) {
	f := newFixture()
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")

	first := f.upload(t, &p.ID, 2)
	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].SortOrder)
	assert.Equal(t, 2, first[1].SortOrder)
	assert.True(t, first[0].IsPrimary)
	assert.False(t, first[1].IsPrimary)
	assert.Regexp(t, `^products/[0-9a-f-]{36}\.png$`, first[0].ImagePath)

	second := f.upload(t, &p.ID, 1)
	assert.Equal(t, 3, second[0].SortOrder)
	assert.False(t, second[0].IsPrimary)

	orphans := f.upload(t, nil, 1)
	assert.True(t, orphans[0].IsOrphaned())
	assert.Zero(t, orphans[0].SortOrder)
	assert.False(t, orphans[0].IsPrimary)

	assert.Equal(t, 4, f.blobs.Len())
	assert.Len(t, primaries(f.imagesOf(t, p.ID)), 1)
}

func TestUploadImagesValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewUploadImagesHandler(f.products, f.images, f.blobs, f.store)

	tooMany := make([]UploadFile, media.MaxUploadFiles+1)
	for i := range tooMany {
		tooMany[i] = UploadFile{Data: pngBytes(t)}
	}

	tests := []struct {
		name  string
		cmd   UploadImagesCommand
		field string
	}{
		{"no files", UploadImagesCommand{}, "images"},
		{"too many files", UploadImagesCommand{Files: tooMany}, "images"},
		{"not an image", UploadImagesCommand{Files: []UploadFile{{Data: []byte("plain text")}}}, "images.0"},
		{"too large", UploadImagesCommand{Files: []UploadFile{{Data: make([]byte, media.MaxUploadBytes+1)}}}, "images.0"},
		{"unknown product", UploadImagesCommand{ProductID: uintPtr(9), Files: []UploadFile{{Data: pngBytes(t)}}}, "product_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			require.ErrorIs(t, err, apperror.ErrValidation)
			assert.Contains(t, apperror.FieldErrors(err), tt.field)
		})
	}
	assert.Zero(t, f.blobs.Len())
}

type failingImages struct {
	*blobmemory.Backend
	failDelete bool
}

func (s *failingImages) Delete(ctx context.Context, key string) error {
	if s.failDelete {
		return errors.New("disk on fire")
	}
	return s.Backend.Delete(ctx, key)
}

type failingImageRepo struct {
	domain.ImageRepository
	failDelete bool
}

func (r *failingImageRepo) Delete(ctx context.Context, id uint) error {
	if r.failDelete {
		return errors.New("connection reset")
	}
	return r.ImageRepository.Delete(ctx, id)
}

func TestUpdateImagePrimary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewUpdateImageHandler(f.products, f.images, f.store)
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	imgs := f.upload(t, &p.ID, 3)

	_, err := h.Handle(ctx, UpdateImageCommand{ID: imgs[2].ID, IsPrimary: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []uint{imgs[2].ID}, primaries(f.imagesOf(t, p.ID)))

	// demoting the primary promotes the first remaining image
	_, err = h.Handle(ctx, UpdateImageCommand{ID: imgs[2].ID, IsPrimary: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []uint{imgs[0].ID}, primaries(f.imagesOf(t, p.ID)))

	updated, err := h.Handle(ctx, UpdateImageCommand{ID: imgs[1].ID, AltText: strPtr("side view"), SortOrder: intPtr(0)})
	require.NoError(t, err)
	require.NotNil(t, updated.AltText)
	assert.Equal(t, "side view", *updated.AltText)
	assert.Equal(t, 0, updated.SortOrder)

	_, err = h.Handle(ctx, UpdateImageCommand{ID: imgs[1].ID, SortOrder: intPtr(-1)})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateImageSoleAndOrphan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewUpdateImageHandler(f.products, f.images, f.store)
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	sole := f.upload(t, &p.ID, 1)[0]
	orphan := f.upload(t, nil, 1)[0]

	_, err := h.Handle(ctx, UpdateImageCommand{ID: sole.ID, IsPrimary: boolPtr(false)})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, []uint{sole.ID}, primaries(f.imagesOf(t, p.ID)))

	_, err = h.Handle(ctx, UpdateImageCommand{ID: orphan.ID, IsPrimary: boolPtr(true)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.Handle(ctx, UpdateImageCommand{ID: 999, AltText: strPtr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewDeleteImageHandler(f.products, f.images, f.blobs, f.store)
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	imgs := f.upload(t, &p.ID, 3)

	_, err := h.Handle(ctx, DeleteImageCommand{ID: imgs[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{imgs[1].ID}, primaries(f.imagesOf(t, p.ID)))
	assert.Equal(t, 2, f.blobs.Len())

	_, err = h.Handle(ctx, DeleteImageCommand{ID: imgs[2].ID})
	require.NoError(t, err)
	_, err = h.Handle(ctx, DeleteImageCommand{ID: imgs[1].ID})
	require.NoError(t, err)
	assert.Empty(t, f.imagesOf(t, p.ID))
	assert.Zero(t, f.blobs.Len())

	_, err = h.Handle(ctx, DeleteImageCommand{ID: imgs[1].ID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteImageBlobFailureKeepsDeletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	store := &failingImages{Backend: f.blobs}
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	imgs := f.upload(t, &p.ID, 2)

	store.failDelete = true
	deleted, err := NewDeleteImageHandler(f.products, f.images, store, f.store).Handle(ctx, DeleteImageCommand{ID: imgs[0].ID})
	require.NoError(t, err)
	assert.Equal(t, imgs[0].ID, deleted.ID)

	remaining := f.imagesOf(t, p.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, []uint{imgs[1].ID}, primaries(remaining))

	// the unreferenced blob stays behind
	assert.Equal(t, 2, f.blobs.Len())
}

func TestDeleteImageRollbackKeepsBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	imgs := f.upload(t, &p.ID, 1)

	images := &failingImageRepo{ImageRepository: f.images, failDelete: true}
	_, err := NewDeleteImageHandler(f.products, images, f.blobs, f.store).Handle(ctx, DeleteImageCommand{ID: imgs[0].ID})
	require.Error(t, err)

	assert.Len(t, f.imagesOf(t, p.ID), 1)
	assert.Equal(t, 1, f.blobs.Len())
}

func TestDeleteImageSkipsRemotePaths(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pid := uint(1)
	remote := &domain.ProductImage{ProductID: &pid, ImagePath: "https://cdn.example.com/a.png", IsPrimary: true}
	require.NoError(t, f.images.Create(ctx, remote))

	store := &failingImages{Backend: f.blobs, failDelete: true}
	_, err := NewDeleteImageHandler(f.products, f.images, store, f.store).Handle(ctx, DeleteImageCommand{ID: remote.ID})
	require.NoError(t, err)
}

func TestReorderImages(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewReorderImagesHandler(f.products, f.images, f.store)
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	other := f.product(t, "Saw", cat.ID, "")
	imgs := f.upload(t, &p.ID, 3)
	foreign := f.upload(t, &other.ID, 1)[0]

	got, err := h.Handle(ctx, ReorderImagesCommand{ProductID: p.ID, ImageIDs: []uint{imgs[2].ID, imgs[0].ID, imgs[1].ID}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, imgs[2].ID, got[0].ID)
	assert.Equal(t, 0, got[0].SortOrder)
	assert.Equal(t, imgs[0].ID, got[1].ID)
	assert.Equal(t, 1, got[1].SortOrder)
	assert.Equal(t, imgs[1].ID, got[2].ID)
	assert.Equal(t, 2, got[2].SortOrder)

	t.Run("foreign image rejected before any write", func(t *testing.T) {
		_, err := h.Handle(ctx, ReorderImagesCommand{ProductID: p.ID, ImageIDs: []uint{imgs[0].ID, foreign.ID}})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, imgs[2].ID, f.imagesOf(t, p.ID)[0].ID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := h.Handle(ctx, ReorderImagesCommand{ProductID: p.ID, ImageIDs: []uint{imgs[0].ID, imgs[0].ID}})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := h.Handle(ctx, ReorderImagesCommand{ProductID: 404, ImageIDs: []uint{imgs[0].ID}})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestAttachImages(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewAttachImagesHandler(f.products, f.images, f.store)
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	other := f.product(t, "Saw", cat.ID, "")
	orphans := f.upload(t, nil, 2)
	taken := f.upload(t, &other.ID, 1)[0]

	got, err := h.Handle(ctx, AttachImagesCommand{ProductID: p.ID, ImageIDs: []uint{orphans[0].ID, taken.ID, orphans[1].ID}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	mine := f.imagesOf(t, p.ID)
	require.Len(t, mine, 2)
	assert.Equal(t, orphans[0].ID, mine[0].ID)
	assert.True(t, mine[0].IsPrimary)
	assert.False(t, mine[1].IsPrimary)
	assert.Equal(t, 1, mine[0].SortOrder)
	assert.Equal(t, 2, mine[1].SortOrder)

	// already attached images are not reassigned
	stillOther := f.imagesOf(t, other.ID)
	require.Len(t, stillOther, 1)
	assert.True(t, stillOther[0].IsPrimary)

	more := f.upload(t, nil, 1)
	_, err = h.Handle(ctx, AttachImagesCommand{ProductID: p.ID, ImageIDs: []uint{more[0].ID}})
	require.NoError(t, err)
	mine = f.imagesOf(t, p.ID)
	assert.Equal(t, 3, mine[2].SortOrder)
	assert.Len(t, primaries(mine), 1)

	_, err = h.Handle(ctx, AttachImagesCommand{ProductID: p.ID, ImageIDs: []uint{12345}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = h.Handle(ctx, AttachImagesCommand{ProductID: 404, ImageIDs: []uint{more[0].ID}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// Every product with at least one image keeps exactly one primary whatever
// sequence of image operations runs against it.
func TestExactlyOnePrimaryUnderRandomOperations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")
	products := []*domain.Product{
		f.product(t, "A", cat.ID, ""),
		f.product(t, "B", cat.ID, ""),
	}

	upload := NewUploadImagesHandler(f.products, f.images, f.blobs, f.store)
	update := NewUpdateImageHandler(f.products, f.images, f.store)
	del := NewDeleteImageHandler(f.products, f.images, f.blobs, f.store)
	attach := NewAttachImagesHandler(f.products, f.images, f.store)

	rng := rand.New(rand.NewSource(42))
	allImages := func() []domain.ProductImage {
		imgs, err := f.images.FindAll(ctx, domain.ImageFilter{})
		require.NoError(t, err)
		return imgs
	}
	pick := func() (domain.ProductImage, bool) {
		imgs := allImages()
		if len(imgs) == 0 {
			return domain.ProductImage{}, false
		}
		return imgs[rng.Intn(len(imgs))], true
	}

	for step := 0; step < 300; step++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(5) {
		case 0:
			var target *uint
			if rng.Intn(3) > 0 {
				target = &p.ID
			}
			files := make([]UploadFile, 1+rng.Intn(3))
			for i := range files {
				files[i] = UploadFile{Data: pngBytes(t)}
			}
			_, err := upload.Handle(ctx, UploadImagesCommand{ProductID: target, Files: files})
			require.NoError(t, err)
		case 1:
			if img, ok := pick(); ok {
				_, _ = update.Handle(ctx, UpdateImageCommand{ID: img.ID, IsPrimary: boolPtr(rng.Intn(2) == 0)})
			}
		case 2:
			if img, ok := pick(); ok {
				_, err := del.Handle(ctx, DeleteImageCommand{ID: img.ID})
				require.NoError(t, err)
			}
		case 3:
			var ids []uint
			for _, img := range allImages() {
				if rng.Intn(2) == 0 {
					ids = append(ids, img.ID)
				}
			}
			if len(ids) > 0 {
				_, err := attach.Handle(ctx, AttachImagesCommand{ProductID: p.ID, ImageIDs: ids})
				require.NoError(t, err)
			}
		case 4:
			if img, ok := pick(); ok {
				_, _ = update.Handle(ctx, UpdateImageCommand{ID: img.ID, SortOrder: intPtr(rng.Intn(5))})
			}
		}

		for _, p := range products {
			imgs := f.imagesOf(t, p.ID)
			if len(imgs) > 0 {
				require.Len(t, primaries(imgs), 1, "step %d product %d", step, p.ID)
			}
		}
	}
}

// lockRecorder notes which products were row-locked
type lockRecorder struct {
	domain.ProductRepository
	locked []uint
}

func (r *lockRecorder) FindByIDWithTrashedForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	r.locked = append(r.locked, id)
	return r.ProductRepository.FindByIDWithTrashedForUpdate(ctx, id)
}

func TestImageChangesLockTrashedOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	imgs := f.upload(t, &p.ID, 3)
	require.NoError(t, NewDeleteProductHandler(f.products).Handle(ctx, DeleteProductCommand{ID: p.ID}))

	products := &lockRecorder{ProductRepository: f.products}
	_, err := NewUpdateImageHandler(products, f.images, f.store).Handle(ctx, UpdateImageCommand{ID: imgs[1].ID, IsPrimary: boolPtr(true)})
	require.NoError(t, err)
	_, err = NewUpdateImageHandler(products, f.images, f.store).Handle(ctx, UpdateImageCommand{ID: imgs[2].ID, IsPrimary: boolPtr(true)})
	require.NoError(t, err)
	_, err = NewDeleteImageHandler(products, f.images, f.blobs, f.store).Handle(ctx, DeleteImageCommand{ID: imgs[2].ID})
	require.NoError(t, err)

	assert.Equal(t, []uint{p.ID, p.ID, p.ID}, products.locked)
	assert.Len(t, primaries(f.imagesOf(t, p.ID)), 1)

	_, err = NewRestoreProductHandler(f.products, f.store).Handle(ctx, RestoreProductCommand{ID: p.ID})
	require.NoError(t, err)
	remaining := f.imagesOf(t, p.ID)
	assert.Len(t, remaining, 2)
	assert.Len(t, primaries(remaining), 1)
}
