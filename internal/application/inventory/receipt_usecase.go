package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

// ReceiptUseCase genera, guarda y envía los comprobantes de entrega/devolución.
// Un fallo aquí nunca deshace el movimiento ya registrado.
type ReceiptUseCase struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
	generator ReceiptGenerator
	store     ReceiptStore
	notifier  ReceiptNotifier
	archiver  ReceiptArchiver
	metrics   Metrics
	log       *logger.Logger
}

// NewReceiptUseCase construye el caso de uso. notifier nil desactiva el envío por correo.
func NewReceiptUseCase(
	movements repository.MovementRepository,
	items repository.ItemRepository,
	generator ReceiptGenerator,
	store ReceiptStore,
	notifier ReceiptNotifier,
	metrics Metrics,
	log *logger.Logger,
) *ReceiptUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReceiptUseCase{
		movements: movements,
		items:     items,
		generator: generator,
		store:     store,
		notifier:  notifier,
		metrics:   metrics,
		log:       log.Component("receipts"),
	}
}

// WithArchiver habilita la descarga de todos los comprobantes de un checkout.
func (uc *ReceiptUseCase) WithArchiver(a ReceiptArchiver) *ReceiptUseCase {
	uc.archiver = a
	return uc
}

// ReceiptFilename nombre del archivo PDF de un movimiento.
func ReceiptFilename(movementID string) string {
	return "comprobante_" + movementID + ".pdf"
}

// Generate renderiza el PDF del movimiento, lo guarda, registra la ruta y, si hay correo
// del receptor, lo envía. Devuelve la ruta guardada.
func (uc *ReceiptUseCase) Generate(ctx context.Context, movementID string) (string, error) {
	mov, path, pdf, err := uc.generate(ctx, movementID)
	if err != nil {
		return "", err
	}
	uc.notify(ctx, mov.RecipientEmail, mov.RecipientName(), []ReceiptFile{{Name: ReceiptFilename(movementID), Data: pdf}})
	return path, nil
}

// GenerateForBatch genera un comprobante por movimiento. Sigue ante fallos y devuelve
// las rutas generadas junto con los errores acumulados. Cada receptor recibe un solo
// correo con todos sus comprobantes adjuntos.
func (uc *ReceiptUseCase) GenerateForBatch(ctx context.Context, movementIDs []string) ([]string, error) {
	type mailing struct {
		name  string
		files []ReceiptFile
	}
	paths := make([]string, 0, len(movementIDs))
	var (
		errs       []error
		recipients []string
		byEmail    = map[string]*mailing{}
	)
	for _, id := range movementIDs {
		mov, path, pdf, err := uc.generate(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("movimiento %s: %w", id, err))
			continue
		}
		paths = append(paths, path)
		if mov.RecipientEmail == "" {
			continue
		}
		m, ok := byEmail[mov.RecipientEmail]
		if !ok {
			m = &mailing{name: mov.RecipientName()}
			byEmail[mov.RecipientEmail] = m
			recipients = append(recipients, mov.RecipientEmail)
		}
		m.files = append(m.files, ReceiptFile{Name: ReceiptFilename(id), Data: pdf})
	}
	for _, to := range recipients {
		uc.notify(ctx, to, byEmail[to].name, byEmail[to].files)
	}
	return paths, errors.Join(errs...)
}

func (uc *ReceiptUseCase) generate(ctx context.Context, movementID string) (*entity.Movement, string, []byte, error) {
	mov, path, pdf, err := uc.render(ctx, movementID)
	uc.metrics.ReceiptGenerated(err == nil)
	if err != nil {
		uc.log.Error().Err(err).Str("movement_id", movementID).Msg("no se pudo generar el comprobante")
		return nil, "", nil, err
	}
	uc.log.Info().Str("movement_id", movementID).Str("path", path).Msg("comprobante generado")
	return mov, path, pdf, nil
}

// Download devuelve el PDF guardado del movimiento; si no existe lo genera de nuevo.
func (uc *ReceiptUseCase) Download(ctx context.Context, movementID string) (string, []byte, error) {
	mov, err := uc.movements.GetByID(ctx, movementID)
	if err != nil {
		return "", nil, err
	}
	if mov == nil {
		return "", nil, domain.ErrNotFound
	}
	if mov.ReceiptPath != "" {
		data, err := uc.store.Load(ctx, mov.ReceiptPath)
		if err == nil {
			return ReceiptFilename(movementID), data, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", nil, err
		}
		uc.log.Warn().Str("movement_id", movementID).Str("path", mov.ReceiptPath).Msg("comprobante ausente, se regenera")
	}
	_, _, pdf, err := uc.render(ctx, movementID)
	uc.metrics.ReceiptGenerated(err == nil)
	if err != nil {
		return "", nil, err
	}
	return ReceiptFilename(movementID), pdf, nil
}

// DownloadBatch empaqueta los comprobantes de todos los movimientos de un checkout.
// Los que falten se regeneran como en Download.
func (uc *ReceiptUseCase) DownloadBatch(ctx context.Context, batchID string) (string, []byte, error) {
	if uc.archiver == nil {
		return "", nil, errors.New("descarga por lote no configurada")
	}
	movs, err := uc.movements.ListByBatch(ctx, batchID)
	if err != nil {
		return "", nil, err
	}
	if len(movs) == 0 {
		return "", nil, domain.ErrNotFound
	}
	files := make([]ReceiptFile, 0, len(movs))
	for _, m := range movs {
		name, data, err := uc.Download(ctx, m.ID)
		if err != nil {
			return "", nil, fmt.Errorf("movimiento %s: %w", m.ID, err)
		}
		files = append(files, ReceiptFile{Name: name, Data: data})
	}
	archive, err := uc.archiver.Archive(files)
	if err != nil {
		return "", nil, err
	}
	return "comprobantes_" + batchID + ".zip", archive, nil
}

func (uc *ReceiptUseCase) render(ctx context.Context, movementID string) (*entity.Movement, string, []byte, error) {
	mov, err := uc.movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, "", nil, err
	}
	if mov == nil {
		return nil, "", nil, domain.ErrNotFound
	}
	item, err := uc.items.GetByID(ctx, mov.ItemID)
	if err != nil {
		return nil, "", nil, err
	}
	if item == nil {
		return nil, "", nil, domain.ErrNotFound
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, mov, item)
	if err != nil {
		return nil, "", nil, fmt.Errorf("generar pdf: %w", err)
	}
	path, err := uc.store.Save(ctx, ReceiptFilename(movementID), pdf)
	if err != nil {
		return nil, "", nil, fmt.Errorf("guardar pdf: %w", err)
	}
	if err := uc.movements.SetReceiptPath(ctx, movementID, path); err != nil {
		return nil, "", nil, fmt.Errorf("registrar ruta del comprobante: %w", err)
	}
	mov.ReceiptPath = path
	return mov, path, pdf, nil
}

func (uc *ReceiptUseCase) notify(ctx context.Context, to, name string, files []ReceiptFile) {
	if uc.notifier == nil || to == "" || len(files) == 0 {
		return
	}
	if err := uc.notifier.SendReceipts(ctx, to, name, files); err != nil {
		uc.log.Warn().Err(err).Str("to", to).Int("receipts", len(files)).Msg("no se pudo enviar el comprobante")
		return
	}
	uc.log.Info().Str("to", to).Int("receipts", len(files)).Msg("comprobantes enviados")
}
