package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"irontycoon/internal/catalog"
	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ShopUserStore interface {
	userWallet
	SetOwnedUpgrades(ctx context.Context, tx store.Execer, upgradesJSON string) error
}

type ShopSlotStore interface {
	GetState(ctx context.Context) (models.ShopState, error)
	GetStateForUpdate(ctx context.Context, tx store.Getter) (models.ShopState, error)
	Slots(ctx context.Context) ([]models.ShopSlot, error)
	SlotsForUpdate(ctx context.Context, tx store.Selecter) ([]models.ShopSlot, error)
	ReplaceSlots(ctx context.Context, tx store.Execer, lastRefresh int64, slots []models.ShopSlot) error
	MarkSold(ctx context.Context, tx store.Execer, itemID int64) (bool, error)
}

type ShopInventoryStore interface {
	List(ctx context.Context) ([]models.InventoryEntry, error)
	Insert(ctx context.Context, tx store.Execer, entry models.InventoryEntry) error
	OldestOwned(ctx context.Context, tx store.Getter, itemID int64) (models.InventoryEntry, bool, error)
	MarkConsumed(ctx context.Context, tx store.Execer, id string, consumedAt int64) error
}

// ShopService rotates the daily offer board and settles item and upgrade
// purchases against the wallet.
type ShopService struct {
	txRunner  db.TxRunner
	users     ShopUserStore
	shop      ShopSlotStore
	inventory ShopInventoryStore
	hub       UpdateHub
	eco       config.Economy
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewShopService(txRunner db.TxRunner, users ShopUserStore, shop ShopSlotStore, inventory ShopInventoryStore, hub UpdateHub, eco config.Economy) *ShopService {
	return &ShopService{
		txRunner:  txRunner,
		users:     users,
		shop:      shop,
		inventory: inventory,
		hub:       hub,
		eco:       eco,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type ShopOffer struct {
	Position int64          `json:"position"`
	ItemID   int64          `json:"item_id"`
	Name     string         `json:"name"`
	Cost     int64          `json:"cost"`
	Type     string         `json:"type"`
	Rarity   catalog.Rarity `json:"rarity"`
	Icon     string         `json:"icon"`
	SoldOut  bool           `json:"sold_out"`
}

type ShopView struct {
	Offers        []ShopOffer `json:"offers"`
	LastRefresh   int64       `json:"last_refresh"`
	NextRefreshIn int64       `json:"next_refresh_in"`
}

func (s *ShopService) View(ctx context.Context) (ShopView, error) {
	state, err := s.shop.GetState(ctx)
	if err != nil && !store.IsNotFound(err) {
		return ShopView{}, err
	}
	slots, err := s.shop.Slots(ctx)
	if err != nil {
		return ShopView{}, err
	}
	view := ShopView{LastRefresh: state.LastRefresh}
	for _, slot := range slots {
		item, ok := catalog.ItemByID(slot.ItemID)
		if !ok {
			continue
		}
		view.Offers = append(view.Offers, ShopOffer{
			Position: slot.Position,
			ItemID:   item.ID,
			Name:     item.Name,
			Cost:     item.Cost,
			Type:     item.Type,
			Rarity:   item.Rarity,
			Icon:     item.Icon,
			SoldOut:  slot.SoldOut,
		})
	}
	next := state.LastRefresh + s.eco.ShopRotationHours*3600 - s.now().Unix()
	if next < 0 {
		next = 0
	}
	view.NextRefreshIn = next
	return view, nil
}

// Reconcile rotates the board when it is stale, empty or corrupted. A board
// with duplicate items counts as corrupted and gets rerolled in place.
func (s *ShopService) Reconcile(ctx context.Context) (bool, error) {
	rotated := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rotated = false
		state, err := s.shop.GetStateForUpdate(ctx, tx)
		if err != nil && !store.IsNotFound(err) {
			return err
		}
		slots, err := s.shop.SlotsForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		now := s.now().Unix()
		if !s.needsRotation(state, slots, now) {
			return nil
		}
		if err := s.shop.ReplaceSlots(ctx, tx, now, s.pickSlots()); err != nil {
			return err
		}
		rotated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if rotated {
		s.hub.Broadcast(websocket.Update{Kind: websocket.UpdateShop, Data: map[string]any{"rotated": true}})
	}
	return rotated, nil
}

func (s *ShopService) needsRotation(state models.ShopState, slots []models.ShopSlot, now int64) bool {
	if len(slots) == 0 {
		return true
	}
	seen := make(map[int64]bool, len(slots))
	for _, slot := range slots {
		if seen[slot.ItemID] {
			return true
		}
		seen[slot.ItemID] = true
		if _, ok := catalog.ItemByID(slot.ItemID); !ok {
			return true
		}
	}
	return now > state.LastRefresh+s.eco.ShopRotationHours*3600
}

// pickSlots draws distinct items by rarity weight. The attempt cap bounds
// the rerolls spent skipping duplicates.
func (s *ShopService) pickSlots() []models.ShopSlot {
	var slots []models.ShopSlot
	used := make(map[int64]bool)
	for attempt := 0; attempt < s.eco.ShopPickAttempts && len(slots) < s.eco.ShopSlotCount; attempt++ {
		item, ok := s.rollItem()
		if !ok || used[item.ID] {
			continue
		}
		used[item.ID] = true
		slots = append(slots, models.ShopSlot{Position: int64(len(slots)), ItemID: item.ID})
	}
	return slots
}

func (s *ShopService) rollItem() (catalog.Item, bool) {
	roll := s.randBelow(catalog.TotalRarityWeight())
	for _, rarity := range catalog.RarityOrder {
		weight := catalog.RarityWeights[rarity]
		if roll < weight {
			pool := catalog.PoolByRarity(rarity)
			if len(pool) == 0 {
				return catalog.Item{}, false
			}
			return pool[s.randBelow(int64(len(pool)))], true
		}
		roll -= weight
	}
	return catalog.Item{}, false
}

// Purchase buys one offer off the board. The slot flips to sold out and the
// item lands in the inventory in the same transaction as the debit.
func (s *ShopService) Purchase(ctx context.Context, itemID int64) (models.InventoryEntry, models.User, error) {
	item, ok := catalog.ItemByID(itemID)
	if !ok {
		return models.InventoryEntry{}, models.User{}, ErrUnknownItem
	}
	var entry models.InventoryEntry
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		slots, err := s.shop.SlotsForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		listed := false
		for _, slot := range slots {
			if slot.ItemID != itemID {
				continue
			}
			if slot.SoldOut {
				return ErrSlotSoldOut
			}
			listed = true
			break
		}
		if !listed {
			return ErrItemNotInShop
		}
		u, ok, err := debitBalance(ctx, tx, s.users, item.Cost)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientFunds
		}
		sold, err := s.shop.MarkSold(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !sold {
			return ErrSlotSoldOut
		}
		invType := models.InventoryConsumable
		if catalog.IsPermanentType(item.Type) {
			invType = models.InventoryPermanent
		}
		entry = models.InventoryEntry{
			ID:         uuid.NewString(),
			ItemID:     itemID,
			Status:     models.InventoryOwned,
			Type:       invType,
			AcquiredAt: s.now().Unix(),
		}
		if err := s.inventory.Insert(ctx, tx, entry); err != nil {
			return err
		}
		after = u
		return nil
	})
	if err != nil {
		return models.InventoryEntry{}, models.User{}, err
	}
	broadcastWallet(s.hub, after)
	s.hub.Broadcast(websocket.Update{Kind: websocket.UpdateShop, Data: map[string]any{"sold": itemID}})
	return entry, after, nil
}

// PurchaseUpgrade buys a permanent infrastructure upgrade. Each upgrade can
// be owned once.
func (s *ShopService) PurchaseUpgrade(ctx context.Context, upgradeID string) (models.User, error) {
	upgrade, ok := catalog.UpgradeByID(upgradeID)
	if !ok {
		return models.User{}, ErrUnknownUpgrade
	}
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if hasUpgrade(u.OwnedUpgrades, upgradeID) {
			return ErrUpgradeOwned
		}
		u, ok, err := debitBalance(ctx, tx, s.users, upgrade.Price)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientFunds
		}
		owned := addUpgrade(u.OwnedUpgrades, upgradeID)
		if err := s.users.SetOwnedUpgrades(ctx, tx, owned); err != nil {
			return err
		}
		u.OwnedUpgrades = owned
		after = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	broadcastWallet(s.hub, after)
	return after, nil
}

// Consume spends the oldest owned unit of a consumable item.
func (s *ShopService) Consume(ctx context.Context, itemID int64) (models.InventoryEntry, error) {
	var entry models.InventoryEntry
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		found, ok, err := s.inventory.OldestOwned(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrItemNotOwned
		}
		consumedAt := s.now().Unix()
		if err := s.inventory.MarkConsumed(ctx, tx, found.ID, consumedAt); err != nil {
			return err
		}
		found.Status = models.InventoryConsumed
		found.ConsumedAt = &consumedAt
		entry = found
		return nil
	})
	if err != nil {
		return models.InventoryEntry{}, err
	}
	return entry, nil
}

func (s *ShopService) Inventory(ctx context.Context) ([]models.InventoryEntry, error) {
	return s.inventory.List(ctx)
}

func (s *ShopService) randBelow(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(n)
}
