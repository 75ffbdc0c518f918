package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"ceethaluxe/internal/domain/model"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ログイン中のユーザー。nilなら未ログイン。
type Session struct {
	UserID    int64      `json:"uid"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// カート明細。商品IDはカート内で一意。
// 表示用フィールドは追加時点の商品からコピーする。
type CartLine struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
}

// 全ページ共通の状態。永続化するのはカートだけ
// （ユーザー・商品キャッシュは鮮度とセキュリティの都合で保存しない）。
type State struct {
	User      *Session        `json:"user"`
	Cart      []CartLine      `json:"cart"`
	Products  []model.Product `json:"products"`
	Theme     Theme           `json:"theme"`
	IsLoading bool            `json:"isLoading"`
}

// カート内の合計個数
func (s State) CartCount() int64 {
	var n int64
	for _, line := range s.Cart {
		n += line.Quantity
	}
	return n
}

// カート小計
func (s State) CartSubtotal() float64 {
	var total float64
	for _, line := range s.Cart {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Setでまとめて更新する差分。nilのフィールドは触らない。
// Userだけはnilをセットしたいことがあるのでポインタのポインタにする。
type Partial struct {
	User      **Session
	Cart      *[]CartLine
	Products  *[]model.Product
	Theme     *Theme
	IsLoading *bool
}

type listenerEntry struct {
	id int64
	fn func(State)
}

// Storeはセッション・カート・商品キャッシュ・テーマの唯一の置き場。
// 変更はmutexで直列化するが、リスナー呼び出しはロック外で行うので
// リスナーの中からSetを呼んでも詰まらない（無限ループは呼ぶ側の責任）。
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []listenerEntry
	nextID    int64
	storage   Storage
	log       *slog.Logger
}

// 保存済みのカートがあれば読み戻す。壊れていたら捨てて空カートで始める。
func New(storage Storage, defaultTheme Theme, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if defaultTheme != ThemeLight && defaultTheme != ThemeDark {
		defaultTheme = ThemeDark
	}

	s := &Store{
		state: State{
			Cart:     []CartLine{},
			Products: []model.Product{},
			Theme:    defaultTheme,
		},
		storage: storage,
		log:     log,
	}
	s.loadFromStorage()
	return s
}

// 現在の状態のスナップショットを返す。呼び出し側は書き換えないこと。
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// 差分をマージして、(1)リスナー全員へ登録順に通知、(2)カートを永続化。
// 永続化の失敗はログだけ残して握りつぶす（UIの流れを壊さない）。
func (s *Store) Set(p Partial) {
	s.mu.Lock()
	if p.User != nil {
		s.state.User = *p.User
	}
	if p.Cart != nil {
		s.state.Cart = *p.Cart
	}
	if p.Products != nil {
		s.state.Products = *p.Products
	}
	if p.Theme != nil {
		s.state.Theme = *p.Theme
	}
	if p.IsLoading != nil {
		s.state.IsLoading = *p.IsLoading
	}

	snap := s.snapshotLocked()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(snap)
	}

	s.saveToStorage(snap.Cart)
}

// 以後のSetごとに呼ばれるリスナーを登録する。戻り値で解除。
// 重複排除はしない。
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// ユーザーを丸ごと差し替える（nilでログアウト）
func (s *Store) SetUser(user *Session) {
	s.Set(Partial{User: &user})
}

// 商品キャッシュを丸ごと差し替える。マージはしない。
func (s *Store) SetProducts(products []model.Product) {
	s.Set(Partial{Products: &products})
}

func (s *Store) SetLoading(isLoading bool) {
	s.Set(Partial{IsLoading: &isLoading})
}

// カートに追加。同じ商品があれば数量を加算、無ければ末尾に追加。
// 在庫チェックはここではしない（呼び出し側の責任）。
func (s *Store) AddToCart(p model.Product, quantity int64) {
	s.mu.Lock()
	cart := make([]CartLine, len(s.state.Cart))
	copy(cart, s.state.Cart)
	s.mu.Unlock()

	found := false
	for i := range cart {
		if cart[i].ProductID == p.ID {
			cart[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.FirstImage(),
			Quantity:  quantity,
		})
	}

	s.Set(Partial{Cart: &cart})
}

// 一致する明細を取り除く。無ければ何もしない（通知はする）。
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	cart := make([]CartLine, 0, len(s.state.Cart))
	for _, line := range s.state.Cart {
		if line.ProductID != productID {
			cart = append(cart, line)
		}
	}
	s.mu.Unlock()

	s.Set(Partial{Cart: &cart})
}

func (s *Store) ClearCart() {
	cart := []CartLine{}
	s.Set(Partial{Cart: &cart})
}

func (s *Store) ToggleTheme() {
	s.mu.Lock()
	theme := ThemeLight
	if s.state.Theme == ThemeLight {
		theme = ThemeDark
	}
	s.mu.Unlock()

	s.Set(Partial{Theme: &theme})
}

func (s *Store) snapshotLocked() State {
	snap := s.state
	snap.Cart = make([]CartLine, len(s.state.Cart))
	copy(snap.Cart, s.state.Cart)
	snap.Products = make([]model.Product, len(s.state.Products))
	copy(snap.Products, s.state.Products)
	return snap
}

// 永続化レコード。カートのみ。
type persistedState struct {
	Cart []CartLine `json:"cart"`
}

func (s *Store) saveToStorage(cart []CartLine) {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(persistedState{Cart: cart})
	if err != nil {
		s.log.Error("state: marshal cart failed", "err", err)
		return
	}
	if err := s.storage.Save(context.Background(), data); err != nil {
		s.log.Error("state: save cart failed", "err", err)
	}
}

func (s *Store) loadFromStorage() {
	if s.storage == nil {
		return
	}

	data, err := s.storage.Load(context.Background())
	if err != nil {
		s.log.Error("state: load cart failed", "err", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var saved persistedState
	if err := json.Unmarshal(data, &saved); err != nil {
		// 壊れたレコードは捨てる。起動は止めない。
		s.log.Error("state: discard malformed cart record", "err", err)
		return
	}
	if saved.Cart != nil {
		s.state.Cart = saved.Cart
	}
}
