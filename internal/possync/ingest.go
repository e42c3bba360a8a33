package possync

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/pizzanorte/backoffice/internal/storage"
	"github.com/rs/zerolog/log"
)

// requiredColumns are the POS export columns the ingest cannot work without.
// The export carries more; anything unknown is ignored.
var requiredColumns = []string{"branch", "order_id", "date", "status", "product_code", "quantity", "line_total"}

// IngestSummary reports what one ingested file contained.
type IngestSummary struct {
	BatchID     string `json:"batch_id"`
	Source      string `json:"source"`
	Orders      int    `json:"orders"`
	Lines       int    `json:"lines"`
	SkippedRows int    `json:"skipped_rows"`
}

// IngestService parses POS transaction exports and upserts them as orders.
// Re-ingesting a file is safe: orders are keyed by (branch, order_id) and
// their lines are replaced wholesale.
type IngestService struct {
	driveService *Service
	sales        repository.SalesRepository
	archive      storage.ObjectStorage
}

func NewIngestService(driveService *Service, sales repository.SalesRepository, archive storage.ObjectStorage) *IngestService {
	return &IngestService{
		driveService: driveService,
		sales:        sales,
		archive:      archive,
	}
}

// IngestFile streams one file straight from the export folder.
func (s *IngestService) IngestFile(ctx context.Context, fileID string) (*IngestSummary, error) {
	pr, pw := io.Pipe()
	go func() {
		err := s.driveService.DownloadFile(fileID, pw)
		pw.CloseWithError(err)
	}()

	return s.IngestCSV(ctx, pr, fileID)
}

// IngestLocalFile ingests a downloaded CSV and, when archiving is configured,
// uploads the original file keyed by batch id.
func (s *IngestService) IngestLocalFile(ctx context.Context, path string) (*IngestSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	summary, err := s.IngestCSV(ctx, f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		if err := s.archiveFile(ctx, path, summary.BatchID); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("possync: archiving failed")
		}
	}

	return summary, nil
}

func (s *IngestService) archiveFile(ctx context.Context, path, batchID string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to reopen %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	key := fmt.Sprintf("%s/%s-%s", time.Now().Format("2006/01"), batchID, filepath.Base(path))
	return s.archive.Put(ctx, key, f, info.Size(), "text/csv")
}

// IngestCSV parses one export and upserts its orders. Malformed rows are
// logged and skipped rather than failing the file: one mistyped line in a
// 3000-row export must not lose the other 2999.
func (s *IngestService) IngestCSV(ctx context.Context, r io.Reader, source string) (*IngestSummary, error) {
	batchID := uuid.New().String()

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	type parsedOrder struct {
		order domain.POSOrder
		items []domain.POSOrderItem
	}

	orders := make(map[string]*parsedOrder)
	var orderKeys []string
	summary := &IngestSummary{BatchID: batchID, Source: source}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.Warn().Err(err).Int("row", rowNum).Str("source", source).Msg("possync: unreadable row skipped")
			summary.SkippedRows++
			continue
		}

		row, err := parseRow(record, colMap)
		if err != nil {
			log.Warn().Err(err).Int("row", rowNum).Str("source", source).Msg("possync: invalid row skipped")
			summary.SkippedRows++
			continue
		}

		key := row.branch + "|" + row.externalID
		po, ok := orders[key]
		if !ok {
			po = &parsedOrder{order: domain.POSOrder{
				BranchCode: row.branch,
				ExternalID: row.externalID,
				Date:       row.date,
				Status:     row.status,
			}}
			orders[key] = po
			orderKeys = append(orderKeys, key)
		}
		po.items = append(po.items, domain.POSOrderItem{
			ProductCode: row.productCode,
			Quantity:    row.quantity,
			LineTotal:   row.lineTotal,
		})
		po.order.Total += row.lineTotal
		summary.Lines++
	}

	for _, key := range orderKeys {
		po := orders[key]
		orderID, err := s.sales.UpsertOrder(ctx, &po.order)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert order %s: %w", po.order.ExternalID, err)
		}
		if err := s.sales.ReplaceItems(ctx, orderID, po.items); err != nil {
			return nil, fmt.Errorf("failed to store items for order %s: %w", po.order.ExternalID, err)
		}
		summary.Orders++
	}

	log.Info().
		Str("batch_id", batchID).
		Str("source", source).
		Int("orders", summary.Orders).
		Int("lines", summary.Lines).
		Int("skipped", summary.SkippedRows).
		Msg("pos export ingested")

	return summary, nil
}

type exportRow struct {
	branch      string
	externalID  string
	date        time.Time
	status      int
	productCode string
	quantity    float64
	lineTotal   float64
}

func parseRow(record []string, colMap map[string]int) (*exportRow, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	row := &exportRow{
		branch:      getValue("branch"),
		externalID:  getValue("order_id"),
		productCode: getValue("product_code"),
	}
	if row.branch == "" || row.externalID == "" {
		return nil, fmt.Errorf("missing branch or order_id")
	}
	if row.productCode == "" {
		return nil, fmt.Errorf("missing product_code")
	}

	date, err := time.Parse("2006-01-02", getValue("date"))
	if err != nil {
		return nil, fmt.Errorf("bad date %q", getValue("date"))
	}
	row.date = date

	status, err := strconv.Atoi(getValue("status"))
	if err != nil {
		return nil, fmt.Errorf("bad status %q", getValue("status"))
	}
	row.status = status

	// Quantities come as float strings like "2.0" in some exports.
	row.quantity, err = strconv.ParseFloat(getValue("quantity"), 64)
	if err != nil || row.quantity <= 0 {
		return nil, fmt.Errorf("bad quantity %q", getValue("quantity"))
	}

	row.lineTotal, err = strconv.ParseFloat(getValue("line_total"), 64)
	if err != nil || row.lineTotal < 0 {
		return nil, fmt.Errorf("bad line_total %q", getValue("line_total"))
	}

	return row, nil
}

// SyncFolder pulls every export in the configured folder and ingests each
// file in turn. Per-file failures are logged and the sync moves on.
func (s *IngestService) SyncFolder(ctx context.Context, downloader *Downloader, opts DownloadOptions) ([]IngestSummary, error) {
	paths, err := downloader.DownloadFolderCSV(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to download export folder: %w", err)
	}

	var summaries []IngestSummary
	for _, path := range paths {
		summary, err := s.IngestLocalFile(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("possync: file ingest failed")
			continue
		}
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}
