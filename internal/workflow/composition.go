package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/covercraft/catalog_api/internal/models"
	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
)

// State identifies a step of the product composition workflow.
type State string

// Workflow states, in order of progression. Failed keeps the edited form data
// so the operator can retry without re-entering anything.
const (
	StateSelectBrand  State = "select_brand"
	StateSelectSeries State = "select_series"
	StateSelectModels State = "select_models"
	StateEditVariants State = "edit_variants"
	StateSubmitting   State = "submitting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Uploader resolves a pending image into a stable retrieval URL.
type Uploader interface {
	Upload(ctx context.Context, namespace, filename, contentType string, data []byte) (string, error)
}

// ProductCreator persists a fully resolved product with its variants.
type ProductCreator interface {
	CreateProduct(ctx context.Context, req *service.CreateProductRequest) (*models.Product, error)
}

// uploadNamespace is the storage prefix for variant images.
const uploadNamespace = "products"

// ImageFile is a local file attached to a variant before upload.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// VariantForm is one editable variant row. Exactly one row exists per
// selected phone model. Image holds the pending local file until Submit
// resolves it into ImageURL.
type VariantForm struct {
	PhoneModelID string
	Price        decimal.Decimal
	Quantity     int
	IsActive     bool
	Image        *ImageFile
	ImageURL     string
}

// Composition drives the product creation flow through its states. All
// transitions go through explicit methods; an upstream selection change
// resets every downstream choice. Not safe for concurrent use: one
// composition belongs to one operator session.
type Composition struct {
	uploader Uploader
	creator  ProductCreator

	state       State
	name        string
	description string
	brandID     string
	seriesID    string
	variants    []VariantForm

	err     error
	created *models.Product
}

// NewComposition starts a fresh workflow in the brand selection state.
func NewComposition(uploader Uploader, creator ProductCreator) *Composition {
	return &Composition{
		uploader: uploader,
		creator:  creator,
		state:    StateSelectBrand,
	}
}

// State returns the current workflow state.
func (c *Composition) State() State { return c.state }

// Err returns the error that moved the workflow to Failed, if any.
func (c *Composition) Err() error { return c.err }

// Product returns the created product once the workflow is Done.
func (c *Composition) Product() *models.Product { return c.created }

// Variants returns a copy of the current variant rows.
func (c *Composition) Variants() []VariantForm {
	out := make([]VariantForm, len(c.variants))
	copy(out, c.variants)
	return out
}

// SelectedModels returns the phone model ids currently held as variants.
// This set and the variant rows are always in one-to-one correspondence.
func (c *Composition) SelectedModels() []string {
	ids := make([]string, len(c.variants))
	for i, v := range c.variants {
		ids[i] = v.PhoneModelID
	}
	return ids
}

// SetProductInfo sets the product name and description.
func (c *Composition) SetProductInfo(name, description string) {
	c.name = name
	c.description = description
}

// SelectBrand picks a brand. Changing the brand invalidates any chosen
// series, models and variant rows tied to the old series.
func (c *Composition) SelectBrand(brandID string) error {
	if c.submitting() {
		return c.transitionError("select brand")
	}
	if brandID == "" {
		return fmt.Errorf("%w: brand id is required", utils.ErrValidation)
	}
	if brandID == c.brandID {
		return nil
	}
	c.brandID = brandID
	c.seriesID = ""
	c.variants = nil
	c.state = StateSelectSeries
	return nil
}

// SelectSeries picks a series of the chosen brand. Changing the series
// resets the model selection and all variant rows.
func (c *Composition) SelectSeries(seriesID string) error {
	if c.submitting() {
		return c.transitionError("select series")
	}
	if c.brandID == "" {
		return fmt.Errorf("%w: select a brand first", utils.ErrValidation)
	}
	if seriesID == "" {
		return fmt.Errorf("%w: series id is required", utils.ErrValidation)
	}
	if seriesID == c.seriesID {
		return nil
	}
	c.seriesID = seriesID
	c.variants = nil
	c.state = StateSelectModels
	return nil
}

// AddModels adds one variant row per phone model id. Ids already present are
// ignored, so selecting a model twice never yields two rows.
func (c *Composition) AddModels(modelIDs ...string) error {
	if c.submitting() {
		return c.transitionError("add models")
	}
	if c.seriesID == "" {
		return fmt.Errorf("%w: select a series first", utils.ErrValidation)
	}

	present := make(map[string]bool, len(c.variants))
	for _, v := range c.variants {
		present[v.PhoneModelID] = true
	}
	for _, id := range modelIDs {
		if id == "" || present[id] {
			continue
		}
		present[id] = true
		c.variants = append(c.variants, VariantForm{
			PhoneModelID: id,
			Price:        decimal.Zero,
			Quantity:     0,
			IsActive:     true,
		})
	}

	if len(c.variants) > 0 {
		c.state = StateEditVariants
	}
	return nil
}

// RemoveVariant drops the variant row for a model and, with it, the model
// from the selected set — the two collections stay consistent.
func (c *Composition) RemoveVariant(modelID string) error {
	if c.submitting() {
		return c.transitionError("remove variant")
	}
	for i, v := range c.variants {
		if v.PhoneModelID == modelID {
			c.variants = append(c.variants[:i], c.variants[i+1:]...)
			if len(c.variants) == 0 {
				c.state = StateSelectModels
			}
			return nil
		}
	}
	return fmt.Errorf("%w: no variant for model %s", utils.ErrNotFound, modelID)
}

// SetVariantPrice updates the price of the variant for a model.
func (c *Composition) SetVariantPrice(modelID string, price decimal.Decimal) error {
	v, err := c.variant(modelID)
	if err != nil {
		return err
	}
	v.Price = price
	return nil
}

// SetVariantQuantity updates the stock quantity of the variant for a model.
func (c *Composition) SetVariantQuantity(modelID string, quantity int) error {
	v, err := c.variant(modelID)
	if err != nil {
		return err
	}
	v.Quantity = quantity
	return nil
}

// SetVariantActive toggles the active flag of the variant for a model.
func (c *Composition) SetVariantActive(modelID string, active bool) error {
	v, err := c.variant(modelID)
	if err != nil {
		return err
	}
	v.IsActive = active
	return nil
}

// SetVariantImage attaches a local image file to the variant for a model,
// replacing any previously attached file or resolved URL.
func (c *Composition) SetVariantImage(modelID string, image *ImageFile) error {
	v, err := c.variant(modelID)
	if err != nil {
		return err
	}
	v.Image = image
	v.ImageURL = ""
	return nil
}

// Submit validates the form, resolves pending images concurrently and creates
// the product. On the first upload failure the whole submission aborts —
// no partial product is ever created — and the form data stays intact for a
// retry. Submit may be called again from Failed.
func (c *Composition) Submit(ctx context.Context) error {
	if c.state != StateEditVariants && c.state != StateFailed {
		return c.transitionError("submit")
	}
	if err := c.validate(); err != nil {
		return err
	}

	c.state = StateSubmitting
	c.err = nil

	urls, err := c.resolveImages(ctx)
	if err != nil {
		c.state = StateFailed
		c.err = err
		return err
	}

	req := &service.CreateProductRequest{
		Name:        c.name,
		Description: c.description,
		Variants:    make([]service.VariantRequest, len(c.variants)),
	}
	for i, v := range c.variants {
		req.Variants[i] = service.VariantRequest{
			PhoneModelID: v.PhoneModelID,
			Price:        v.Price,
			Quantity:     v.Quantity,
			ImageURL:     urls[i],
			IsActive:     v.IsActive,
		}
	}

	product, err := c.creator.CreateProduct(ctx, req)
	if err != nil {
		c.state = StateFailed
		c.err = err
		return err
	}

	// Commit resolved URLs only after full success.
	for i := range c.variants {
		c.variants[i].ImageURL = urls[i]
		c.variants[i].Image = nil
	}
	c.created = product
	c.state = StateDone
	return nil
}

// validate is the gate before leaving EditVariants.
func (c *Composition) validate() error {
	if strings.TrimSpace(c.name) == "" {
		return fmt.Errorf("%w: product name is required", utils.ErrValidation)
	}
	if strings.TrimSpace(c.description) == "" {
		return fmt.Errorf("%w: product description is required", utils.ErrValidation)
	}
	if len(c.variants) == 0 {
		return fmt.Errorf("%w: at least one variant is required", utils.ErrValidation)
	}
	for _, v := range c.variants {
		if v.Price.LessThan(service.MinVariantPrice) {
			return fmt.Errorf("%w: price for model %s must be at least %s",
				utils.ErrValidation, v.PhoneModelID, service.MinVariantPrice)
		}
		if v.Quantity < 0 {
			return fmt.Errorf("%w: quantity for model %s must not be negative",
				utils.ErrValidation, v.PhoneModelID)
		}
		if v.Image == nil && v.ImageURL == "" {
			return fmt.Errorf("%w: image for model %s is required", utils.ErrValidation, v.PhoneModelID)
		}
	}
	return nil
}

// resolveImages uploads all pending images concurrently and returns one URL
// per variant, indexed to match c.variants regardless of completion order.
// The first failure cancels the remaining uploads.
func (c *Composition) resolveImages(ctx context.Context) ([]string, error) {
	urls := make([]string, len(c.variants))

	g, gctx := errgroup.WithContext(ctx)
	for i := range c.variants {
		v := c.variants[i]
		if v.Image == nil {
			urls[i] = v.ImageURL
			continue
		}
		idx := i
		g.Go(func() error {
			url, err := c.uploader.Upload(gctx, uploadNamespace, v.Image.Name, v.Image.ContentType, v.Image.Data)
			if err != nil {
				return err
			}
			urls[idx] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (c *Composition) variant(modelID string) (*VariantForm, error) {
	if c.submitting() {
		return nil, c.transitionError("edit variant")
	}
	for i := range c.variants {
		if c.variants[i].PhoneModelID == modelID {
			return &c.variants[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no variant for model %s", utils.ErrNotFound, modelID)
}

func (c *Composition) submitting() bool {
	return c.state == StateSubmitting || c.state == StateDone
}

func (c *Composition) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s in state %s", utils.ErrValidation, action, c.state)
}
