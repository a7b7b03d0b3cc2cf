package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository/memrepo"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeGenerator struct {
	failFor string
	calls   int
}

func (g *fakeGenerator) GenerateReceipt(_ context.Context, m *entity.Movement, item *entity.Item) ([]byte, error) {
	g.calls++
	if m.ID == g.failFor {
		return nil, errors.New("maroto caído")
	}
	return []byte("%PDF-" + item.Name), nil
}

type fakeStore struct {
	files map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{files: map[string][]byte{}} }

func (s *fakeStore) Save(_ context.Context, name string, data []byte) (string, error) {
	path := "receipts/" + name
	s.files[path] = data
	return path, nil
}

func (s *fakeStore) Load(_ context.Context, path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

type sentMail struct {
	to, name  string
	filenames []string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) SendReceipts(_ context.Context, to, name string, files []inventory.ReceiptFile) error {
	if n.err != nil {
		return n.err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	n.sent = append(n.sent, sentMail{to, name, names})
	return nil
}

func checkoutIssue(t *testing.T, store *memrepo.Store, lines ...cart.Line) []string {
	t.Helper()
	res, err := inventory.NewCheckoutUseCase(store, nil, nil).Apply(context.Background(), inventory.CheckoutInput{
		Lines:     lines,
		Type:      entity.MovementTypeIssue,
		Operator:  operator(),
		Recipient: recipient(),
	})
	require.NoError(t, err)
	return res.MovementIDs
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptGenerate_GuardaRutaYEnviaCorreo(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store, cart.Line{ItemID: "a", Quantity: 1})
	files := newFakeStore()
	notifier := &fakeNotifier{}
	metrics := &recordingMetrics{}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, files, notifier, metrics, nil)

	path, err := uc.Generate(context.Background(), ids[0])
	require.NoError(t, err)

	assert.Equal(t, "receipts/"+inventory.ReceiptFilename(ids[0]), path)
	assert.Equal(t, []byte("%PDF-Monitor Dell 24"), files.files[path])
	assert.Equal(t, path, store.AllMovements()[0].ReceiptPath)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ana@example.com", notifier.sent[0].to)
	assert.Equal(t, "Ana Gómez", notifier.sent[0].name)
	assert.Equal(t, []string{inventory.ReceiptFilename(ids[0])}, notifier.sent[0].filenames)
	assert.Equal(t, []bool{true}, metrics.receipts)
}

func TestReceiptGenerate_FalloDeCorreoNoEsError(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store, cart.Line{ItemID: "a", Quantity: 1})
	notifier := &fakeNotifier{err: errors.New("smtp rechazó")}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, newFakeStore(), notifier, nil, nil)

	_, err := uc.Generate(context.Background(), ids[0])
	assert.NoError(t, err)
}

func TestReceiptGenerate_MovimientoInexistente(t *testing.T) {
	store := newStore()
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, newFakeStore(), nil, nil, nil)

	_, err := uc.Generate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiptGenerateForBatch_UnComprobantePorMovimiento(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store,
		cart.Line{ItemID: "a", Quantity: 1},
		cart.Line{ItemID: "b", Quantity: 1},
		cart.Line{ItemID: "c", Quantity: 1},
	)
	gen := &fakeGenerator{failFor: ids[1]}
	metrics := &recordingMetrics{}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), gen, newFakeStore(), nil, metrics, nil)

	paths, err := uc.GenerateForBatch(context.Background(), ids)

	require.Error(t, err, "el fallo de la línea 2 se informa")
	assert.Len(t, paths, 2, "las demás líneas sí generan comprobante")
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, []bool{true, false, true}, metrics.receipts)

	movs := store.AllMovements()
	assert.NotEmpty(t, movs[0].ReceiptPath)
	assert.Empty(t, movs[1].ReceiptPath)
	assert.NotEmpty(t, movs[2].ReceiptPath)
}

func TestReceiptGenerateForBatch_UnCorreoConTodosLosAdjuntos(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store,
		cart.Line{ItemID: "a", Quantity: 1},
		cart.Line{ItemID: "b", Quantity: 1},
		cart.Line{ItemID: "c", Quantity: 1},
	)
	notifier := &fakeNotifier{}
	gen := &fakeGenerator{failFor: ids[2]}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), gen, newFakeStore(), notifier, nil, nil)

	paths, err := uc.GenerateForBatch(context.Background(), ids)
	require.Error(t, err)
	assert.Len(t, paths, 2)

	require.Len(t, notifier.sent, 1, "un solo correo por receptor")
	assert.Equal(t, "ana@example.com", notifier.sent[0].to)
	assert.Equal(t, []string{
		inventory.ReceiptFilename(ids[0]),
		inventory.ReceiptFilename(ids[1]),
	}, notifier.sent[0].filenames)
}

func TestReceiptDownload_UsaArchivoGuardado(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store, cart.Line{ItemID: "b", Quantity: 1})
	gen := &fakeGenerator{}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), gen, newFakeStore(), nil, nil, nil)

	_, err := uc.Generate(context.Background(), ids[0])
	require.NoError(t, err)

	name, data, err := uc.Download(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, inventory.ReceiptFilename(ids[0]), name)
	assert.Equal(t, []byte("%PDF-Docking WD19"), data)
	assert.Equal(t, 1, gen.calls, "no se regenera si el archivo existe")
}

func TestReceiptDownload_RegeneraSiFalta(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store, cart.Line{ItemID: "b", Quantity: 1})
	gen := &fakeGenerator{}
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), gen, newFakeStore(), nil, nil, nil)

	_, data, err := uc.Download(context.Background(), ids[0])
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, 1, gen.calls)
	assert.NotEmpty(t, store.AllMovements()[0].ReceiptPath)

	_, _, err = uc.Download(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type namesArchiver struct{}

func (namesArchiver) Archive(files []inventory.ReceiptFile) ([]byte, error) {
	var out []byte
	for _, f := range files {
		out = append(out, f.Name+"\n"...)
	}
	return out, nil
}

func TestReceiptDownloadBatch_EmpaquetaTodoElCheckout(t *testing.T) {
	store := newStore()
	ids := checkoutIssue(t, store,
		cart.Line{ItemID: "a", Quantity: 1},
		cart.Line{ItemID: "b", Quantity: 1},
	)
	// Otro checkout que no debe aparecer en el paquete
	checkoutIssue(t, store, cart.Line{ItemID: "c", Quantity: 1})
	batchID := store.AllMovements()[0].BatchID

	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, newFakeStore(), nil, nil, nil).
		WithArchiver(namesArchiver{})

	name, data, err := uc.DownloadBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "comprobantes_"+batchID+".zip", name)
	assert.Equal(t, inventory.ReceiptFilename(ids[0])+"\n"+inventory.ReceiptFilename(ids[1])+"\n", string(data))
}

func TestReceiptDownloadBatch_LoteInexistente(t *testing.T) {
	store := newStore()
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, newFakeStore(), nil, nil, nil).
		WithArchiver(namesArchiver{})

	_, _, err := uc.DownloadBatch(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiptDownloadBatch_SinArchivador(t *testing.T) {
	store := newStore()
	checkoutIssue(t, store, cart.Line{ItemID: "a", Quantity: 1})
	uc := inventory.NewReceiptUseCase(store.Movements(), store.Items(), &fakeGenerator{}, newFakeStore(), nil, nil, nil)

	_, _, err := uc.DownloadBatch(context.Background(), store.AllMovements()[0].BatchID)
	assert.Error(t, err)
}
