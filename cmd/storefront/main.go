package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"shopfront/internal/api"
	"shopfront/internal/cart"
	"shopfront/internal/checkout"
	"shopfront/internal/config"
	"shopfront/internal/model"
	"shopfront/internal/session"
	"shopfront/internal/storage"
	"shopfront/internal/wishlist"
)

const usage = `Usage: storefront <command> [args]

Catalogue:
  products [-limit N] [-offset N] [-category C] [-search S]
  product <id>
  categories | deals | banners | faqs | blogs | about | terms | contact
  blog <slug>
  coupons
  reviews <product-id>

Account:
  login -email E -password P
  logout
  register -name N -email E -password P [-mobile M]
  forgot-password <email>
  reset-password -token T -password P
  profile [-name N] [-mobile M] [-address A] [-bio B]
  orders

Cart:
  cart show | add <product-id> [-qty N] | remove <id> | qty <id> <n> | clear
  coupon apply <code> | remove
  checkout -address A [-method ONLINE|COD]

Wishlist:
  wishlist show | add <product-id> | remove <product-id>

Other:
  review -product ID -rating N -comment TEXT
  newsletter <email>
  chat [send <message>]
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired state containers the commands operate on.
type app struct {
	client   *api.Client
	session  *session.Manager
	cart     *cart.Engine
	wishlist *wishlist.Store
	checkout *checkout.Service
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	store, err := storage.NewFileStore(cfg.State.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	client := api.New(cfg.API, logger)
	sess := session.NewManager(client, store, logger)

	engine, err := cart.NewEngine(store, client, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart: %w", err)
	}

	wl := wishlist.NewStore(client, sess, logger)

	ctx := context.Background()

	// Session transitions drive cart scope switches (guest cart merge
	// on login) and wishlist cache resets.
	sess.OnChange(func(user *model.User) {
		if err := engine.SetUser(user); err != nil {
			logger.Error().Err(err).Msg("failed to switch cart scope")
		}
		wl.HandleSessionChange(ctx, user)
	})

	if err := sess.Restore(); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if err := engine.SetUser(sess.User()); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	a := &app{
		client:   client,
		session:  sess,
		cart:     engine,
		wishlist: wl,
		checkout: checkout.NewService(client, sess, engine, checkout.UnavailableGateway{}, logger),
	}

	return a.dispatch(ctx, args[0], args[1:])
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "products":
		return a.cmdProducts(ctx, args)
	case "product":
		id, err := argInt(args, 0, "product id")
		if err != nil {
			return err
		}
		return a.printFetched(a.client.ProductByID(ctx, id))
	case "categories":
		return a.printFetched(a.client.Categories(ctx))
	case "deals":
		return a.printFetched(a.client.Deals(ctx))
	case "banners":
		return a.printFetched(a.client.Banners(ctx))
	case "faqs":
		return a.printFetched(a.client.FAQs(ctx))
	case "blogs":
		return a.printFetched(a.client.Blogs(ctx))
	case "blog":
		if len(args) < 1 {
			return fmt.Errorf("blog requires a slug")
		}
		return a.printFetched(a.client.BlogBySlug(ctx, args[0]))
	case "coupons":
		return a.printFetched(a.client.Coupons(ctx))
	case "about":
		return a.printFetched(a.client.AboutPage(ctx))
	case "terms":
		return a.printFetched(a.client.TermsPage(ctx))
	case "contact":
		return a.printFetched(a.client.Contact(ctx))
	case "reviews":
		id, err := argInt(args, 0, "product id")
		if err != nil {
			return err
		}
		return a.printFetched(a.client.ProductReviews(ctx, id))
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout()
		return nil
	case "register":
		return a.cmdRegister(ctx, args)
	case "forgot-password":
		if len(args) < 1 {
			return fmt.Errorf("forgot-password requires an email address")
		}
		return a.client.ForgotPassword(ctx, args[0])
	case "reset-password":
		return a.cmdResetPassword(ctx, args)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "chat":
		return a.cmdChat(ctx, args)
	case "orders":
		return a.printFetched(a.checkout.Orders(ctx))
	case "cart":
		return a.cmdCart(ctx, args)
	case "coupon":
		return a.cmdCoupon(ctx, args)
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "wishlist":
		return a.cmdWishlist(ctx, args)
	case "review":
		return a.cmdReview(ctx, args)
	case "newsletter":
		if len(args) < 1 {
			return fmt.Errorf("newsletter requires an email address")
		}
		return a.client.NewsletterSubscribe(ctx, args[0])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum products to list")
	offset := fs.Int("offset", 0, "listing offset")
	category := fs.String("category", "", "filter by category")
	search := fs.String("search", "", "search term")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.printFetched(a.client.Products(ctx, api.ProductQuery{
		Limit:    *limit,
		Offset:   *offset,
		Category: *category,
		Search:   *search,
	}))
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", user.Name)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	mobile := fs.String("mobile", "", "mobile number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -name, -email and -password")
	}
	return a.session.Register(ctx, &model.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Mobile:   *mobile,
	})
}

func (a *app) cmdResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	token := fs.String("token", "", "reset token from the email")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" || *password == "" {
		return fmt.Errorf("reset-password requires -token and -password")
	}
	return a.client.ResetPassword(ctx, *token, *password)
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	mobile := fs.String("mobile", "", "mobile number")
	address := fs.String("address", "", "postal address")
	bio := fs.String("bio", "", "profile bio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Without flags this just shows the cached profile.
	if *name == "" && *mobile == "" && *address == "" && *bio == "" {
		return printJSON(a.session.User())
	}

	return a.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		user, err := a.client.UpdateProfile(ctx, &model.UpdateProfileRequest{
			Name:    *name,
			Mobile:  *mobile,
			Address: *address,
			Bio:     *bio,
		}, bearer)
		if err != nil {
			return err
		}
		return a.session.UpdateUser(*user)
	})
}

func (a *app) cmdChat(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "send" {
		if len(args) < 2 {
			return fmt.Errorf("chat send requires a message")
		}
		return a.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
			return a.client.ChatSend(ctx, args[1], bearer)
		})
	}
	return a.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		messages, err := a.client.ChatHistory(ctx, bearer)
		if err != nil {
			return err
		}
		return printJSON(messages)
	})
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		return printJSON(map[string]any{
			"items":    a.cart.Items(),
			"count":    a.cart.Count(),
			"subtotal": a.cart.Subtotal(),
			"coupon":   a.cart.Coupon(),
			"discount": a.cart.Discount(),
			"total":    a.cart.Total(),
		})
	case "add":
		id, err := argInt(args, 1, "product id")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
		qty := fs.Int("qty", 1, "quantity to add")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		product, err := a.client.ProductByID(ctx, id)
		if err != nil {
			return err
		}
		return a.cart.Add(model.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.ImageURL,
			Quantity: *qty,
		})
	case "remove":
		id, err := argInt(args, 1, "product id")
		if err != nil {
			return err
		}
		return a.cart.Remove(id)
	case "qty":
		id, err := argInt(args, 1, "product id")
		if err != nil {
			return err
		}
		qty, err := argInt(args, 2, "quantity")
		if err != nil {
			return err
		}
		return a.cart.SetQuantity(id, qty)
	case "clear":
		return a.cart.Clear()
	default:
		return fmt.Errorf("unknown cart subcommand: %s", args[0])
	}
}

func (a *app) cmdCoupon(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("coupon requires a subcommand: apply <code> | remove")
	}
	switch args[0] {
	case "apply":
		if len(args) < 2 {
			return fmt.Errorf("coupon apply requires a code")
		}
		if err := a.cart.ApplyCoupon(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("Coupon applied, discount %.2f\n", a.cart.Discount())
		return nil
	case "remove":
		return a.cart.RemoveCoupon()
	default:
		return fmt.Errorf("unknown coupon subcommand: %s", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := fs.String("address", "", "shipping address")
	method := fs.String("method", model.PaymentCOD, "payment method (ONLINE or COD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *address == "" {
		return fmt.Errorf("checkout requires -address")
	}
	res, err := a.checkout.PlaceOrder(ctx, *address, *method)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func (a *app) cmdWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if err := a.wishlist.Refresh(ctx); err != nil {
			return err
		}
		return printJSON(a.wishlist.Items())
	case "add":
		id, err := argInt(args, 1, "product id")
		if err != nil {
			return err
		}
		product, err := a.client.ProductByID(ctx, id)
		if err != nil {
			return err
		}
		return a.wishlist.Add(ctx, model.WishlistItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.ImageURL,
			Category: product.Category,
			Stock:    product.Stock,
		})
	case "remove":
		id, err := argInt(args, 1, "product id")
		if err != nil {
			return err
		}
		return a.wishlist.Remove(ctx, id)
	default:
		return fmt.Errorf("unknown wishlist subcommand: %s", args[0])
	}
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	product := fs.Int("product", 0, "product id")
	rating := fs.Int("rating", 5, "rating from 1 to 5")
	comment := fs.String("comment", "", "review text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *product == 0 {
		return fmt.Errorf("review requires -product")
	}
	return a.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		return a.client.CreateReview(ctx, &model.ReviewRequest{
			ProductID: *product,
			Rating:    *rating,
			Comment:   *comment,
		}, bearer)
	})
}

// printFetched prints a fetched value as JSON, short-circuiting on a
// fetch error.
func (a *app) printFetched(v any, err error) error {
	if err != nil {
		return err
	}
	return printJSON(v)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func argInt(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, args[i])
	}
	return n, nil
}
