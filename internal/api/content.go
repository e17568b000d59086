package api

import (
	"context"
	"fmt"

	"shopfront/internal/model"
)

// Banners retrieves the homepage banners.
func (c *Client) Banners(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	if err := c.get(ctx, "/api/banners", &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// Blogs retrieves the blog post listing.
func (c *Client) Blogs(ctx context.Context) ([]model.Blog, error) {
	var blogs []model.Blog
	if err := c.get(ctx, "/api/blogs", &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// BlogBySlug retrieves a single blog post.
func (c *Client) BlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	var blog model.Blog
	if err := c.get(ctx, fmt.Sprintf("/api/blogs/%s", slug), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// FAQs retrieves the FAQ entries.
func (c *Client) FAQs(ctx context.Context) ([]model.FAQ, error) {
	var faqs []model.FAQ
	if err := c.get(ctx, "/api/faqs", &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

// AboutPage retrieves the about page content.
func (c *Client) AboutPage(ctx context.Context) (*model.Page, error) {
	var page model.Page
	if err := c.get(ctx, "/api/about", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TermsPage retrieves the terms and conditions page content.
func (c *Client) TermsPage(ctx context.Context) (*model.Page, error) {
	var page model.Page
	if err := c.get(ctx, "/api/terms", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Contact retrieves the store's contact details.
func (c *Client) Contact(ctx context.Context) (*model.ContactInfo, error) {
	var info model.ContactInfo
	if err := c.get(ctx, "/api/contact", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// NewsletterSubscribe subscribes an email address to the newsletter.
func (c *Client) NewsletterSubscribe(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/api/newsletter/subscribe", body, nil)
}

// ChatHistory retrieves the support chat history. Requires authentication.
func (c *Client) ChatHistory(ctx context.Context, opts ...RequestOption) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := c.get(ctx, "/api/chat/history", &messages, opts...); err != nil {
		return nil, err
	}
	return messages, nil
}

// ChatSend sends a support chat message. Requires authentication.
func (c *Client) ChatSend(ctx context.Context, message string, opts ...RequestOption) error {
	body := map[string]string{"message": message}
	return c.post(ctx, "/api/chat/send", body, nil, opts...)
}
