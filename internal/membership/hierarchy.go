package membership

import (
	"context"
	"errors"

	membershiperrors "go-userhub/internal/membership/errors"
	"go-userhub/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PathNode adalah satu langkah pada rantai pelaporan, dari root ke user.
type PathNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// Engine menjaga integritas graph manager/report dalam satu organisasi.
// Semua walk memakai visited-set sehingga benar di kedalaman berapapun;
// maxDepth hanyalah pagar pengaman tambahan (0 = tanpa pagar, dibatasi
// ukuran organisasi lewat visited-set).
type Engine struct {
	store    user.Repository
	maxDepth int
	logger   *zap.Logger
}

func NewEngine(store user.Repository, maxDepth int, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("membership.hierarchy")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("membership.hierarchy")
	}
	return &Engine{store: store, maxDepth: maxDepth, logger: l}
}

// WithStore mengembalikan Engine yang beroperasi di atas repository lain,
// dipakai agar engine ikut dalam transaksi milik pemanggil.
func (e *Engine) WithStore(store user.Repository) *Engine {
	return &Engine{store: store, maxDepth: e.maxDepth, logger: e.logger}
}

// ValidateManagerAssignment memastikan kandidat manager ada, bukan user itu
// sendiri, dan berada di organisasi yang sama.
func (e *Engine) ValidateManagerAssignment(ctx context.Context, u *user.User, candidateManagerID, organizationID string) error {
	if candidateManagerID == u.ID.String() {
		return membershiperrors.ErrSelfReport
	}

	manager, err := e.store.FindByID(ctx, candidateManagerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membershiperrors.ErrManagerNotFound
		}
		return err
	}

	if !manager.BelongsToOrganization(organizationID) {
		return membershiperrors.ErrCrossOrganizationManager
	}

	return nil
}

// WouldCreateCycle menelusuri rantai reports_to mulai dari kandidat manager
// dan melaporkan true jika userID ditemukan di rantai itu.
func (e *Engine) WouldCreateCycle(ctx context.Context, userID, candidateManagerID string) (bool, error) {
	visited := map[string]struct{}{}
	currentID := candidateManagerID

	for depth := 0; currentID != ""; depth++ {
		if currentID == userID {
			return true, nil
		}
		if _, seen := visited[currentID]; seen {
			// Rantai yang sudah korup; userID tidak ada di dalamnya.
			e.logger.Warn("existing cycle detected while walking chain",
				zap.String("start", candidateManagerID),
				zap.String("at", currentID),
			)
			return false, nil
		}
		visited[currentID] = struct{}{}

		if e.maxDepth > 0 && depth >= e.maxDepth {
			return false, nil
		}

		current, err := e.store.FindByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if current.ReportsToUserID == nil {
			return false, nil
		}
		currentID = current.ReportsToUserID.String()
	}

	return false, nil
}

// HierarchyLevel menghitung jarak user ke root (user tanpa reports_to).
func (e *Engine) HierarchyLevel(ctx context.Context, userID string) (int, error) {
	path, err := e.HierarchyPath(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

// HierarchyPath mengembalikan rantai pelaporan dari root sampai user.
func (e *Engine) HierarchyPath(ctx context.Context, userID string) ([]PathNode, error) {
	var path []PathNode
	visited := map[string]struct{}{}
	currentID := userID

	for depth := 0; currentID != ""; depth++ {
		if _, seen := visited[currentID]; seen {
			e.logger.Warn("cycle encountered while building hierarchy path",
				zap.String("user_id", userID),
				zap.String("at", currentID),
			)
			break
		}
		visited[currentID] = struct{}{}

		if e.maxDepth > 0 && depth >= e.maxDepth {
			break
		}

		current, err := e.store.FindByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}

		node := PathNode{ID: current.ID.String(), Name: current.Name}
		if current.OrganizationPosition != nil {
			node.Position = *current.OrganizationPosition
		}
		// prepend: hasil akhir urut dari root
		path = append([]PathNode{node}, path...)

		if current.ReportsToUserID == nil {
			break
		}
		currentID = current.ReportsToUserID.String()
	}

	return path, nil
}

// AllSubordinates mengembalikan closure rekursif dari direct reports.
// Visited-set wajib di sini: kalau data sempat korup membentuk siklus,
// traversal tetap berhenti.
func (e *Engine) AllSubordinates(ctx context.Context, userID string) ([]user.User, error) {
	var result []user.User
	visited := map[string]struct{}{userID: {}}

	var walk func(id string) error
	walk = func(id string) error {
		reports, err := e.store.FindDirectReports(ctx, id)
		if err != nil {
			return err
		}
		for _, report := range reports {
			rid := report.ID.String()
			if _, seen := visited[rid]; seen {
				continue
			}
			visited[rid] = struct{}{}
			result = append(result, report)
			if err := walk(rid); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(userID); err != nil {
		return nil, err
	}
	return result, nil
}

// ReassignOnDeparture mempromosikan bawahan satu level ke atas saat seorang
// user keluar: direct report pindah ke primary manager user yang keluar
// (fallback ke reports_to-nya), relasi primary dialihkan, relasi secondary
// tidak diwariskan dan dikosongkan.
func (e *Engine) ReassignOnDeparture(ctx context.Context, departing *user.User) error {
	departingID := departing.ID.String()

	var newManagerID *string
	if departing.PrimaryManagerID != nil {
		s := departing.PrimaryManagerID.String()
		newManagerID = &s
	} else if departing.ReportsToUserID != nil {
		s := departing.ReportsToUserID.String()
		newManagerID = &s
	}

	var newManagerValue any
	if newManagerID != nil {
		newManagerValue = *newManagerID
	}

	reassigned := map[string]struct{}{}

	directReports, err := e.store.FindDirectReports(ctx, departingID)
	if err != nil {
		return err
	}
	for _, report := range directReports {
		if err := e.store.UpdateFields(ctx, report.ID.String(), map[string]any{
			"reports_to_user_id": newManagerValue,
			"primary_manager_id": newManagerValue,
		}); err != nil {
			return err
		}
		reassigned[report.ID.String()] = struct{}{}
	}

	primaryManaged, err := e.store.FindByPrimaryManager(ctx, departingID)
	if err != nil {
		return err
	}
	for _, managed := range primaryManaged {
		if _, done := reassigned[managed.ID.String()]; done {
			continue
		}
		var value any
		if departing.PrimaryManagerID != nil {
			value = departing.PrimaryManagerID.String()
		}
		if err := e.store.UpdateFields(ctx, managed.ID.String(), map[string]any{
			"primary_manager_id": value,
		}); err != nil {
			return err
		}
	}

	secondaryManaged, err := e.store.FindBySecondaryManager(ctx, departingID)
	if err != nil {
		return err
	}
	for _, managed := range secondaryManaged {
		if err := e.store.UpdateFields(ctx, managed.ID.String(), map[string]any{
			"secondary_manager_id": nil,
		}); err != nil {
			return err
		}
	}

	e.logger.Info("reporting structure reassigned for departure",
		zap.String("user_id", departingID),
		zap.Int("direct_reports", len(directReports)),
		zap.Int("primary_managed", len(primaryManaged)),
		zap.Int("secondary_managed", len(secondaryManaged)),
	)

	return nil
}

// Transfer memindahkan user ke manager baru. Jika transferReports true,
// seluruh direct report user ikut dipindahkan ke manager baru.
func (e *Engine) Transfer(ctx context.Context, u *user.User, newManagerID string, transferReports bool) error {
	organizationID := ""
	if u.OrganizationID != nil {
		organizationID = u.OrganizationID.String()
	}

	if err := e.ValidateManagerAssignment(ctx, u, newManagerID, organizationID); err != nil {
		return err
	}

	cycle, err := e.WouldCreateCycle(ctx, u.ID.String(), newManagerID)
	if err != nil {
		return err
	}
	if cycle {
		return membershiperrors.ErrCircularReporting
	}

	if err := e.store.UpdateFields(ctx, u.ID.String(), map[string]any{
		"reports_to_user_id": newManagerID,
		"primary_manager_id": newManagerID,
	}); err != nil {
		return err
	}

	if transferReports {
		reports, err := e.store.FindDirectReports(ctx, u.ID.String())
		if err != nil {
			return err
		}
		for _, report := range reports {
			if report.ID.String() == newManagerID {
				// Manager baru bisa saja sebelumnya bawahan langsung user ini;
				// jangan buat dia melapor ke dirinya sendiri.
				continue
			}
			if err := e.store.UpdateFields(ctx, report.ID.String(), map[string]any{
				"reports_to_user_id": newManagerID,
				"primary_manager_id": newManagerID,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
