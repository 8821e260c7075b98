package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smart-cart-backend/internal/collection"
	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/store"
)

// BarcodeSource produces raw barcodes from the scan hardware. An empty
// code with a nil error means the device had nothing to report.
type BarcodeSource interface {
	AcquireBarcode(ctx context.Context) (string, error)
}

// ErrProductNotFound is the resolver's "no match" signal. Like any other
// resolution failure it is absorbed by substituting the sentinel product.
var ErrProductNotFound = errors.New("product not found")

// ProductResolver resolves a raw barcode into product fields.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, barcode string) (*model.Product, error)
}

// Notifier is told about every successfully appended scan.
type Notifier interface {
	ScanCompleted(folderID, productName string)
}

// Workflow orchestrates one scan: acquire a raw code, resolve the product,
// build the item and hand it to the collection. At most one user-triggered
// scan is in flight per workflow instance.
type Workflow struct {
	conn     *Controller
	source   BarcodeSource
	resolver ProductResolver
	folders  store.FolderStore
	items    store.ItemStore
	coll     *collection.Collection
	notifier Notifier
	log      zerolog.Logger

	mu           sync.Mutex
	inFlight     bool
	activeFolder string
}

// NewWorkflow wires the scan workflow. notifier may be nil.
func NewWorkflow(
	conn *Controller,
	source BarcodeSource,
	resolver ProductResolver,
	folders store.FolderStore,
	items store.ItemStore,
	coll *collection.Collection,
	notifier Notifier,
	log zerolog.Logger,
) *Workflow {
	return &Workflow{
		conn:     conn,
		source:   source,
		resolver: resolver,
		folders:  folders,
		items:    items,
		coll:     coll,
		notifier: notifier,
		log:      log.With().Str("component", "scan").Logger(),
	}
}

// SetActiveFolder records the folder new scans should land in.
func (w *Workflow) SetActiveFolder(folderID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeFolder = folderID
}

// ActiveFolder returns the currently selected folder id, or "" if none.
func (w *Workflow) ActiveFolder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeFolder
}

// DeactivateFolder clears the selection if the given folder is active.
// Called when a folder is deleted.
func (w *Workflow) DeactivateFolder(folderID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activeFolder == folderID {
		w.activeFolder = ""
	}
}

// TriggerScan runs one user-initiated scan into the given folder. It
// requires the scanner to be connected and rejects concurrent triggers
// immediately instead of queueing them. A source that reports no code ends
// the scan quietly: no item, no error.
//
// The folder id is captured here; switching the active folder while the
// scan is in flight does not redirect or cancel it.
func (w *Workflow) TriggerScan(ctx context.Context, folderID string) (*model.ScannedItem, error) {
	if w.conn.State() != Connected {
		return nil, ErrNotConnected
	}
	if err := w.checkFolder(ctx, folderID); err != nil {
		return nil, err
	}

	if !w.acquireSlot() {
		return nil, ErrScanInFlight
	}
	defer w.releaseSlot()

	raw, err := w.source.AcquireBarcode(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("barcode acquisition failed")
		return nil, nil
	}
	if raw == "" {
		w.log.Debug().Msg("scan returned no code")
		return nil, nil
	}

	return w.completeScan(ctx, folderID, raw)
}

// IngestBarcode runs the resolution-and-append sequence for a barcode that
// arrived over the push channel. The connectivity gate does not apply: the
// physical device already confirmed the scan. The folder active at
// delivery time receives the item.
func (w *Workflow) IngestBarcode(ctx context.Context, barcode string) (*model.ScannedItem, error) {
	folderID := w.ActiveFolder()
	if err := w.checkFolder(ctx, folderID); err != nil {
		return nil, err
	}
	return w.completeScan(ctx, folderID, barcode)
}

func (w *Workflow) checkFolder(ctx context.Context, folderID string) error {
	if folderID == "" {
		return ErrNoActiveFolder
	}
	_, err := w.folders.GetFolder(ctx, folderID)
	if errors.Is(err, store.ErrFolderNotFound) {
		return ErrNoActiveFolder
	}
	if err != nil {
		return fmt.Errorf("verify cart %s: %w", folderID, err)
	}
	return nil
}

func (w *Workflow) acquireSlot() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return false
	}
	w.inFlight = true
	return true
}

func (w *Workflow) releaseSlot() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
}

// completeScan resolves the code, persists the item and appends it to the
// collection. Lookup failures of any kind degrade to the sentinel product;
// only a persistence failure is terminal for the attempt.
func (w *Workflow) completeScan(ctx context.Context, folderID, barcode string) (*model.ScannedItem, error) {
	product := w.resolve(ctx, barcode)

	item := model.ScannedItem{
		ID:        uuid.NewString(),
		FolderID:  folderID,
		Barcode:   barcode,
		Name:      product.Name,
		Brand:     product.Brand,
		Quantity:  product.Quantity,
		Calories:  product.Calories,
		Protein:   product.Protein,
		Carbs:     product.Carbs,
		Fats:      product.Fats,
		Image:     product.Image,
		Timestamp: time.Now().UTC(),
	}

	created, err := w.items.CreateItem(ctx, item)
	if err != nil {
		w.log.Error().Err(err).Str("barcode", barcode).Msg("could not persist scanned item")
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	w.coll.Append(*created)
	w.log.Info().
		Str("folder_id", folderID).
		Str("barcode", barcode).
		Str("product", created.Name).
		Msg("item scanned")

	if w.notifier != nil {
		w.notifier.ScanCompleted(folderID, created.Name)
	}
	return created, nil
}

func (w *Workflow) resolve(ctx context.Context, barcode string) model.Product {
	product, err := w.resolver.ResolveProduct(ctx, barcode)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			w.log.Warn().Err(err).Str("barcode", barcode).Msg("product lookup failed, using sentinel")
		}
		return model.UnknownProduct(barcode)
	}
	return product.WithDefaults()
}
