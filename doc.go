// package stripe provides a typed client for the Stripe API. Every resource
// this library covers gets a struct of its own, such as Customer, Charge, and
// Subscription, along with typed parameter structs for each operation on it.
// Requests that are missing a required parameter, or that combine parameters
// which cannot go together, fail locally before anything is sent.
//
// A Client is built with the secret key of the Stripe account, and every
// request made through it is authorized with that key,
//
//	client := stripe.NewClient(os.Getenv("STRIPE_SECRET"))
//
//	params := stripe.NewCreateChargeParams(2000, stripe.CurrencyUSD)
//	params.Source = stripe.String("tok_visa")
//
//	ch, err := client.CreateCharge(ctx, params)
//
//	if err != nil {
//		panic(err) // Don't actually do this.
//	}
//
//	fmt.Println(ch.ID, ch.Status)
//
// Each parameter struct has a constructor taking the parameters the API
// requires, everything else is optional and left out of the request payload
// entirely unless set. Optional parameters are pointers, the String, Int64,
// Float64, and Bool helpers turn literals into them. The embedded Params
// struct carries what can be sent with any request, so an idempotency key,
// a connected account, or a parameter the typed fields do not cover can be
// set on any operation,
//
//	params.SetIdempotencyKey(stripe.NewIdempotencyKey())
//	params.AddExpand("customer")
//	params.AddExtra("radar_options[session]", "rse_123456")
//
// When the API itself turns a request down the error is an *Error, holding
// the type, code, and message Stripe reported, along with the HTTP status
// and the id of the request for support tickets. Errors that never got that
// far have types of their own, TransportError for a request that could not
// be carried out, TimeoutError for one that was abandoned, and DecodeError
// for a response that made no sense. All of them unwrap,
//
//	ch, err := client.CreateCharge(ctx, params)
//
//	if err != nil {
//		var stripeErr *stripe.Error
//
//		if errors.As(err, &stripeErr) {
//			if stripeErr.Code == stripe.ErrorCodeCardDeclined {
//				// Have the customer try another card.
//			}
//		}
//	}
//
// List operations return a single page of results, and take the parameters
// shared by every list endpoint via the embedded ListParams. Pages after the
// first are fetched with Next, which cursors on the id of the last resource
// of the current page, or the whole list is walked with All,
//
//	l, err := client.ListCharges(ctx, nil)
//
//	if err != nil {
//		panic(err) // Handle error properly.
//	}
//
//	err = l.All(ctx, client, nil, func(ch *stripe.Charge) error {
//		fmt.Println(ch.ID)
//		return nil
//	})
//
// How requests reach the API is the Transport's business. NewClient uses a
// blocking HTTPTransport with the defaults, NewClientWithTransport takes a
// configured one. TransportConfig is where the base url, the pinned API
// version, the timeout, and TLS are set. TLS is configured either with a
// complete *http.Client or with a *tls.Config for the default pooled client,
// setting both is an error,
//
//	t, err := stripe.NewTransport(stripe.TransportConfig{
//		TLSConfig: &tls.Config{RootCAs: pool},
//	})
//
//	if err != nil {
//		panic(err) // Be more graceful when you do this.
//	}
//
//	client := stripe.NewClientWithTransport(os.Getenv("STRIPE_SECRET"), t)
//
// AsyncTransport carries requests out in the background instead, with a cap
// on how many run at once. A Client built on one behaves exactly as before,
// calls just queue for a slot when the cap is reached. Requests that should
// not block at all are handed to Submit directly, which returns a Call that
// can be waited on, or cancelled, from anywhere,
//
//	at, _ := stripe.NewAsyncTransport(stripe.TransportConfig{})
//
//	call := at.Submit(ctx, stripe.Request{
//		Method: "POST",
//		Path:   "/v1/charges",
//		Body:   form.Encode(),
//		Key:    os.Getenv("STRIPE_SECRET"),
//	})
//
//	resp, err := call.Wait(ctx)
//
// Webhook payloads sent by Stripe are signed, and nothing of a payload is
// given out before its signature has been verified. ConstructEvent checks
// the signature and the age of the payload and returns the decoded Event,
//
//	event, err := stripe.ConstructEvent(body, r.Header.Get("Stripe-Signature"), secret)
//
//	if err != nil {
//		w.WriteHeader(http.StatusBadRequest)
//		return
//	}
//
// or a WebhookHandler does that, plus replay protection, behind a plain
// handler function. Handlers are registered per event type, and each
// verified event is logged in a Store first so one that Stripe delivers
// twice is only handled once,
//
//	wh := stripe.NewWebhookHandler(secret, stripe.PSQL{DB: db}, func(err error) {
//		log.Println("webhook:", err)
//	})
//
//	wh.Handle(stripe.EventTypeInvoicePaid, func(event stripe.Event, w http.ResponseWriter, r *http.Request) {
//		var inv stripe.Invoice
//
//		if err := event.UnmarshalData(&inv); err != nil {
//			w.WriteHeader(http.StatusInternalServerError)
//			return
//		}
//		// Mark the invoice paid on your end.
//	})
//
//	http.HandleFunc("/webhook", wh.HandlerFunc)
//
// Store is the interface behind that replay protection, and doubles as a
// local cache of the customers, invoices, payment methods, and subscriptions
// a billing flow touches, so that pages like a billing overview do not have
// to round-trip to Stripe. The PSQL implementation ships with the library,
// the schema it expects is documented on the type.
//
// For the corners of the API the typed operations do not cover, requests can
// be made directly. Form holds free-form parameters and encodes them the way
// Stripe wants them,
//
//	var pi stripe.PaymentIntent
//
//	err := client.Post(ctx, "/v1/payment_intents", stripe.Form{
//		"amount":               2000,
//		"currency":             "gbp",
//		"payment_method_types": []string{"card"},
//	}, &pi)
//
// the response is decoded into whatever is passed, exactly like the typed
// operations do.
package stripe
