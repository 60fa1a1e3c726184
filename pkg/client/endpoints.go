package client

import (
	"context"
	"fmt"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a customer and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/users/login", email, password)
}

// LoginOwner is Login for restaurant owners.
func (c *Client) LoginOwner(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/users/loginOwner", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.Token)
	return &s, nil
}

func (c *Client) GetMyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrderDetail(ctx context.Context, id uint) (*Order, error) {
	return c.order(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil)
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	return c.order(ctx, http.MethodPost, "/orders", req)
}

func (c *Client) UpdateOrder(ctx context.Context, id uint, req UpdateOrderRequest) (*Order, error) {
	return c.order(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), req)
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil)
}

func (c *Client) ConfirmOrder(ctx context.Context, id uint) (*Order, error) {
	return c.order(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/confirm", id), nil)
}

func (c *Client) SendOrder(ctx context.Context, id uint) (*Order, error) {
	return c.order(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/send", id), nil)
}

func (c *Client) DeliverOrder(ctx context.Context, id uint) (*Order, error) {
	return c.order(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/deliver", id), nil)
}

func (c *Client) order(ctx context.Context, method, path string, in interface{}) (*Order, error) {
	var o Order
	if err := c.do(ctx, method, path, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) GetRestaurants(ctx context.Context) ([]Restaurant, error) {
	return c.restaurants(ctx, "/restaurants")
}

func (c *Client) GetMyRestaurants(ctx context.Context) ([]Restaurant, error) {
	return c.restaurants(ctx, "/users/myrestaurants")
}

func (c *Client) restaurants(ctx context.Context, path string) ([]Restaurant, error) {
	var restaurants []Restaurant
	if err := c.do(ctx, http.MethodGet, path, nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurantDetail includes the restaurant's products.
func (c *Client) GetRestaurantDetail(ctx context.Context, id uint) (*Restaurant, error) {
	var r Restaurant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetRestaurantCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/restaurantCategories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetRestaurantOrders(ctx context.Context, restaurantID uint) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d/orders", restaurantID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetRestaurantAnalytics(ctx context.Context, restaurantID uint) (*Analytics, error) {
	var a Analytics
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d/analytics", restaurantID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
