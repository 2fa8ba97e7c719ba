package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/database"
	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

func seedUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: models.UserRoleUser}
	require.NoError(t, user.SetPassword("Secret123!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

type fakeGateway struct {
	err     error
	amounts []decimal.Decimal
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amounts = append(g.amounts, amount)
	return &PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Status: "requires_payment_method"}, nil
}

type CommerceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	ctx       context.Context
	carts     *CartService
	wishlists *WishlistService
	buyer     *models.User
	other     *models.User
	solRing   *models.Card
	bolt      *models.Card
}

func (s *CommerceTestSuite) SetupTest() {
	s.db = database.NewTestDB(s.T())
	s.ctx = context.Background()
	s.carts = NewCartService(s.db)
	s.wishlists = NewWishlistService(s.db)
	s.buyer = seedUser(s.T(), s.db, "buyer@example.com")
	s.other = seedUser(s.T(), s.db, "other@example.com")
	s.solRing = s.card("sol", "Sol Ring", "3.50")
	s.bolt = s.card("bolt", "Lightning Bolt", "1.25")
}

func (s *CommerceTestSuite) card(externalID, name, price string) *models.Card {
	card := &models.Card{
		ExternalID: externalID,
		Game:       "mtg",
		Name:       name,
		PriceUSD:   decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
	s.Require().NoError(s.db.Create(card).Error)
	return card
}

func (s *CommerceTestSuite) add(card *models.Card, qty int) *models.CartItem {
	item, err := s.carts.AddToCart(s.ctx, s.buyer.ID, &AddToCartRequest{CardID: card.ID, Quantity: qty})
	s.Require().NoError(err)
	return item
}

func (s *CommerceTestSuite) TestAddToCartCapturesPrice() {
	item := s.add(s.solRing, 2)
	s.Equal("3.50", item.PriceAtAddTime.StringFixed(2))

	// A later price change does not touch the cart line.
	s.Require().NoError(s.db.Model(s.solRing).Update("price_usd", decimal.NewFromInt(9)).Error)

	cart, err := s.carts.GetCart(s.ctx, s.buyer.ID)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.Equal("3.50", cart.Items[0].PriceAtAddTime.StringFixed(2))
	s.Equal("7.00", cart.Total.StringFixed(2))
	s.Equal("Sol Ring", cart.Items[0].Card.Name)
}

func (s *CommerceTestSuite) TestAddToCartRejectsBadInput() {
	_, err := s.carts.AddToCart(s.ctx, s.buyer.ID, &AddToCartRequest{CardID: s.solRing.ID, Quantity: 0})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.carts.AddToCart(s.ctx, s.buyer.ID, &AddToCartRequest{CardID: uuid.New(), Quantity: 1})
	s.ErrorIs(err, ErrCardNotFound)

	unpriced := &models.Card{ExternalID: "proxy", Game: "mtg", Name: "Proxy"}
	s.Require().NoError(s.db.Create(unpriced).Error)
	_, err = s.carts.AddToCart(s.ctx, s.buyer.ID, &AddToCartRequest{CardID: unpriced.ID, Quantity: 1})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *CommerceTestSuite) TestRemoveFromCartOnlyOwnItems() {
	item := s.add(s.bolt, 1)

	s.ErrorIs(s.carts.RemoveFromCart(s.ctx, s.other.ID, item.ID), ErrCartItemNotFound)
	s.NoError(s.carts.RemoveFromCart(s.ctx, s.buyer.ID, item.ID))
	s.ErrorIs(s.carts.RemoveFromCart(s.ctx, s.buyer.ID, item.ID), ErrCartItemNotFound)
}

func (s *CommerceTestSuite) TestWishlistAddIsIdempotent() {
	first, err := s.wishlists.Add(s.ctx, s.buyer.ID, s.bolt.ID)
	s.Require().NoError(err)
	second, err := s.wishlists.Add(s.ctx, s.buyer.ID, s.bolt.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	items, err := s.wishlists.List(s.ctx, s.buyer.ID)
	s.Require().NoError(err)
	s.Len(items, 1)
	s.Equal("Lightning Bolt", items[0].Card.Name)

	_, err = s.wishlists.Add(s.ctx, s.buyer.ID, uuid.New())
	s.ErrorIs(err, ErrCardNotFound)

	s.NoError(s.wishlists.Remove(s.ctx, s.buyer.ID, s.bolt.ID))
	s.ErrorIs(s.wishlists.Remove(s.ctx, s.buyer.ID, s.bolt.ID), ErrWishlistItemNotFound)
}

func (s *CommerceTestSuite) checkoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		ShippingAddress: map[string]interface{}{"line1": "1 Main St", "city": "Springfield"},
		ShippingMethod:  "standard",
	}
}

func (s *CommerceTestSuite) TestCheckoutEmptyCart() {
	_, err := NewOrderService(s.db, nil).Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *CommerceTestSuite) TestCheckoutBuildsFrozenOrder() {
	s.add(s.solRing, 2)
	s.add(s.bolt, 4)

	gateway := &fakeGateway{}
	orders := NewOrderService(s.db, gateway)

	result, err := orders.Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.Require().NoError(err)

	order := result.Order
	s.Regexp(regexp.MustCompile(`^ORD-\d+-[a-z0-9]{9}$`), order.OrderNumber)
	s.Equal("12.00", order.TotalAmount.StringFixed(2))
	s.Equal(models.OrderStatusPending, order.Status)
	s.Equal("pi_test", order.StripePaymentIntentID)
	s.Equal("pi_test_secret", result.ClientSecret)
	s.Len(order.Items, 2)
	s.Require().Len(gateway.amounts, 1)
	s.True(gateway.amounts[0].Equal(decimal.NewFromInt(12)))

	cart, err := s.carts.GetCart(s.ctx, s.buyer.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)

	listed, meta, err := orders.ListOrders(s.ctx, s.buyer.ID, utils.PageParams{Limit: 10})
	s.Require().NoError(err)
	s.False(meta.HasMore)
	s.Require().Len(listed, 1)
	s.Len(listed[0].Items, 2)
	s.NotNil(listed[0].Items[0].Card)

	others, _, err := orders.ListOrders(s.ctx, s.other.ID, utils.PageParams{})
	s.Require().NoError(err)
	s.Empty(others)
}

func (s *CommerceTestSuite) TestCheckoutPaymentFailureKeepsCart() {
	s.add(s.bolt, 1)

	orders := NewOrderService(s.db, &fakeGateway{err: errors.New("card declined")})
	_, err := orders.Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.ErrorIs(err, ErrPaymentFailed)

	cart, err := s.carts.GetCart(s.ctx, s.buyer.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 1)

	var count int64
	s.db.Model(&models.Order{}).Count(&count)
	s.Zero(count)
}

func (s *CommerceTestSuite) TestCheckoutValidatesRequest() {
	s.add(s.bolt, 1)
	_, err := NewOrderService(s.db, nil).Checkout(s.ctx, s.buyer.ID, &CheckoutRequest{})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *CommerceTestSuite) TestOrderStatusLifecycle() {
	s.add(s.bolt, 1)
	orders := NewOrderService(s.db, nil)
	result, err := orders.Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.Require().NoError(err)
	id := result.Order.ID

	_, err = orders.UpdateStatus(s.ctx, id, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	s.ErrorIs(err, ErrInvalidStatus)

	for _, next := range []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusShipped} {
		order, err := orders.UpdateStatus(s.ctx, id, &UpdateOrderStatusRequest{Status: next, TrackingNumber: "1Z999"})
		s.Require().NoError(err)
		s.Equal(next, order.Status)
	}

	_, err = orders.UpdateStatus(s.ctx, id, &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	s.ErrorIs(err, ErrInvalidStatus)

	order, err := orders.GetOrder(s.ctx, s.buyer.ID, id)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusShipped, order.Status)
	s.Equal("1Z999", order.TrackingNumber)

	_, err = orders.GetOrder(s.ctx, s.other.ID, id)
	s.ErrorIs(err, ErrOrderNotFound)

	_, err = orders.UpdateStatus(s.ctx, id, &UpdateOrderStatusRequest{Status: "lost"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = orders.UpdateStatus(s.ctx, uuid.New(), &UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
	s.ErrorIs(err, ErrOrderNotFound)

	shipped, _, err := orders.ListAllOrders(s.ctx, OrderFilter{Status: models.OrderStatusShipped})
	s.Require().NoError(err)
	s.Len(shipped, 1)
}

func TestCommerceTestSuite(t *testing.T) {
	suite.Run(t, new(CommerceTestSuite))
}

func (s *CommerceTestSuite) TestDashboardStats() {
	s.add(s.bolt, 2)
	orders := NewOrderService(s.db, nil)
	result, err := orders.Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.Require().NoError(err)
	_, err = orders.UpdateStatus(s.ctx, result.Order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
	s.Require().NoError(err)

	s.add(s.solRing, 1)
	_, err = orders.Checkout(s.ctx, s.buyer.ID, s.checkoutRequest())
	s.Require().NoError(err)

	stats, err := NewAdminService(s.db).GetDashboardStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.TotalUsers)
	s.Equal(int64(2), stats.TotalCards)
	s.Equal(int64(2), stats.StalePriceCards)
	s.Equal(int64(1), stats.OrdersByStatus[models.OrderStatusPaid])
	s.Equal(int64(1), stats.OrdersByStatus[models.OrderStatusPending])
	s.Equal("2.50", stats.TotalRevenue.StringFixed(2))
}
