package runtime

// Texts holds every user-facing string the handlers render.
// Format strings use fmt verbs as noted on each field.
type Texts struct {
	ChooseProduct string `yaml:"choose_product"`
	MyCart        string `yaml:"my_cart"`
	AddToCart     string `yaml:"add_to_cart"`
	Back          string `yaml:"back"`
	BackToMenu    string `yaml:"back_to_menu"`
	Checkout      string `yaml:"checkout"`
	AddedToCart   string `yaml:"added_to_cart"`
	WhatNext      string `yaml:"what_next"`
	ItemRemoved   string `yaml:"item_removed"`
	CartEmpty     string `yaml:"cart_empty"`
	CartLine      string `yaml:"cart_line"`   // title, quantity
	RemoveItem    string `yaml:"remove_item"` // title
	RequestEmail  string `yaml:"request_email"`
	OrderPlaced   string `yaml:"order_placed"`
	Failure       string `yaml:"failure"`
}

// DefaultTexts returns the English texts.
func DefaultTexts() Texts {
	return Texts{
		ChooseProduct: "Please choose:",
		MyCart:        "My cart",
		AddToCart:     "Add to cart",
		Back:          "Back",
		BackToMenu:    "Back to menu",
		Checkout:      "Checkout",
		AddedToCart:   "Product added to cart",
		WhatNext:      "Anything else?",
		ItemRemoved:   "Item removed from cart",
		CartEmpty:     "Your cart is empty...",
		CartLine:      "%s – %d",
		RemoveItem:    "Remove %s",
		RequestEmail:  "Please enter your email address",
		OrderPlaced:   "Order placed!",
		Failure:       "Something went wrong. Please try again or send /start.",
	}
}

// Merge returns t with empty fields filled from defaults.
func (t Texts) Merge(defaults Texts) Texts {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.ChooseProduct, defaults.ChooseProduct)
	fill(&t.MyCart, defaults.MyCart)
	fill(&t.AddToCart, defaults.AddToCart)
	fill(&t.Back, defaults.Back)
	fill(&t.BackToMenu, defaults.BackToMenu)
	fill(&t.Checkout, defaults.Checkout)
	fill(&t.AddedToCart, defaults.AddedToCart)
	fill(&t.WhatNext, defaults.WhatNext)
	fill(&t.ItemRemoved, defaults.ItemRemoved)
	fill(&t.CartEmpty, defaults.CartEmpty)
	fill(&t.CartLine, defaults.CartLine)
	fill(&t.RemoveItem, defaults.RemoveItem)
	fill(&t.RequestEmail, defaults.RequestEmail)
	fill(&t.OrderPlaced, defaults.OrderPlaced)
	fill(&t.Failure, defaults.Failure)
	return t
}
