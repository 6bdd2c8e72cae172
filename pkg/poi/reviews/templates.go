package reviews

// tier groups review texts sharing a base rating.
type tier struct {
	rating int
	texts  []string
}

// templates holds the review text pool per category. Categories without an
// entry fall back to defaultTemplates.
var templates = map[string][]tier{
	"restaurant": {
		{rating: 5, texts: []string{
			"Amazing food! The {cuisine} dishes were authentic and delicious. Staff was very friendly.",
			"One of the best restaurants in Częstochowa. The atmosphere is cozy and the menu is excellent.",
			"Had a wonderful dinner here. The pierogi were the best I've ever had!",
		}},
		{rating: 4, texts: []string{
			"Good food and nice atmosphere. Service was a bit slow but overall a pleasant experience.",
			"Enjoyed our meal here. The portions are generous and prices are reasonable.",
			"Solid restaurant with tasty Polish cuisine. Would recommend for tourists.",
		}},
		{rating: 3, texts: []string{
			"Average food, nothing special but not bad either. Decent prices.",
			"The location is convenient but the food could be better. Okay for a quick meal.",
		}},
	},
	"cafe": {
		{rating: 5, texts: []string{
			"Perfect spot for coffee! Great ambiance and the best espresso in town.",
			"Love this cafe! Cozy atmosphere, friendly staff, and delicious pastries.",
			"My favorite coffee place in Częstochowa. The cakes are homemade and amazing.",
		}},
		{rating: 4, texts: []string{
			"Nice cafe with good coffee. A pleasant place to relax or work on your laptop.",
			"Good selection of teas and coffees. The decor is charming.",
		}},
		{rating: 3, texts: []string{
			"Decent coffee but nothing extraordinary. Good location though.",
		}},
	},
	"museum": {
		{rating: 5, texts: []string{
			"Fascinating museum! Rich collection and very informative exhibits.",
			"A must-visit when in Częstochowa. The displays are well-organized and educational.",
			"Excellent museum with knowledgeable guides. Spent hours here!",
		}},
		{rating: 4, texts: []string{
			"Interesting collection. Some exhibits could use more English translations.",
			"Good museum with a lot of history. Worth visiting if you're interested in the region.",
		}},
	},
	"hotel": {
		{rating: 5, texts: []string{
			"Excellent hotel! Clean rooms, comfortable beds, and fantastic breakfast.",
			"Perfect stay! Staff went above and beyond to make our visit memorable.",
			"Best hotel in Częstochowa. Great location and top-notch service.",
		}},
		{rating: 4, texts: []string{
			"Very good hotel. Rooms are spacious and clean. Good breakfast buffet.",
			"Pleasant stay. The hotel is conveniently located near the main attractions.",
		}},
		{rating: 3, texts: []string{
			"Decent hotel for the price. Basic but clean rooms. Breakfast could be better.",
		}},
	},
	"religious_site": {
		{rating: 5, texts: []string{
			"A truly spiritual experience. The architecture is breathtaking.",
			"One of the most important religious sites in Poland. Very moving visit.",
			"Beautiful and peaceful place. A must-see in Częstochowa.",
		}},
		{rating: 4, texts: []string{
			"Impressive religious site with deep historical significance.",
			"Very beautiful architecture and atmosphere. Worth the visit.",
		}},
	},
	"attraction": {
		{rating: 5, texts: []string{
			"Amazing attraction! Great for families and tourists alike.",
			"One of the highlights of our trip to Częstochowa!",
		}},
		{rating: 4, texts: []string{
			"Nice attraction to visit. Good for a few hours of exploration.",
		}},
	},
	"park": {
		{rating: 5, texts: []string{
			"Beautiful park! Perfect for a relaxing walk or picnic.",
			"Lovely green space in the city. Well-maintained paths and nice playgrounds.",
		}},
		{rating: 4, texts: []string{
			"Nice park for jogging or walking. Some areas could use more benches.",
		}},
	},
	"historic_site": {
		{rating: 5, texts: []string{
			"Fascinating piece of history! The preservation is excellent.",
			"A window into the past. Very interesting historical site.",
		}},
		{rating: 4, texts: []string{
			"Interesting historic site. Would benefit from more information boards.",
		}},
	},
	"nightclub": {
		{rating: 5, texts: []string{
			"Best club in Częstochowa! Great music and amazing atmosphere.",
			"Fantastic night out! The DJ was incredible and drinks were reasonably priced.",
		}},
		{rating: 4, texts: []string{
			"Good club with nice music. Can get crowded on weekends.",
			"Fun place for dancing. Drinks are a bit pricey but worth it.",
		}},
		{rating: 3, texts: []string{
			"Average club. Music was okay but not great. Decent for a night out.",
		}},
	},
	"bar": {
		{rating: 5, texts: []string{
			"Awesome bar! Great selection of drinks and friendly bartenders.",
			"My favorite spot for drinks in Częstochowa. Cozy atmosphere!",
		}},
		{rating: 4, texts: []string{
			"Nice bar with good beer selection. Pleasant atmosphere for an evening drink.",
			"Good place to hang out with friends. Reasonable prices.",
		}},
	},
	"clothing_store": {
		{rating: 5, texts: []string{
			"Great selection of clothes! Found exactly what I was looking for.",
			"Excellent store with trendy fashion. Staff was very helpful.",
		}},
		{rating: 4, texts: []string{
			"Nice clothing store. Good variety and reasonable prices.",
			"Good selection of dresses and casual wear. Worth checking out.",
		}},
		{rating: 3, texts: []string{
			"Average selection but prices are fair. Good for basics.",
		}},
	},
	"shopping_mall": {
		{rating: 5, texts: []string{
			"Great shopping mall! Has everything you need under one roof.",
			"Excellent mall with many shops, restaurants, and entertainment.",
		}},
		{rating: 4, texts: []string{
			"Nice mall with good variety of stores. Clean and well-maintained.",
			"Good place for shopping. Has a nice food court too.",
		}},
	},
}

// defaultTemplates covers categories without a dedicated pool.
var defaultTemplates = []tier{
	{rating: 5, texts: []string{
		"Excellent place! Highly recommended for visitors to Częstochowa.",
		"Great experience! Worth visiting.",
	}},
	{rating: 4, texts: []string{
		"Good place to visit. Enjoyed our time here.",
	}},
}
