package identity

var deviceNames = []string{
	"Marty McFly", "Doc Brown", "Ellen Ripley", "Sarah Connor", "John McClane",
	"Indiana Jones", "Han Solo", "Leia Organa", "Luke Skywalker", "Obi-Wan Kenobi",
	"Darth Vader", "Yoda", "Chewbacca", "R2-D2", "C-3PO",
	"Frodo Baggins", "Samwise Gamgee", "Gandalf", "Aragorn", "Legolas",
	"Gimli", "Bilbo Baggins", "Galadriel", "Hermione Granger", "Harry Potter",
	"Ron Weasley", "Albus Dumbledore", "Severus Snape", "Rubeus Hagrid", "Luna Lovegood",
	"Sherlock Holmes", "John Watson", "Hercule Poirot", "Miss Marple", "James Bond",
	"Ethan Hunt", "Jason Bourne", "Lara Croft", "Master Chief", "Samus Aran",
	"Mario", "Luigi", "Princess Peach", "Link", "Zelda",
	"Pikachu", "Sonic", "Pac-Man", "Kratos", "Geralt of Rivia",
	"Ciri", "Yennefer", "Arthur Dent", "Ford Prefect", "Zaphod Beeblebrox",
	"Marvin the Android", "Trillian", "Jean-Luc Picard", "James T. Kirk", "Spock",
	"Data", "Worf", "Kathryn Janeway", "Benjamin Sisko", "Neo",
	"Trinity", "Morpheus", "Agent Smith", "The Dude", "Walter Sobchak",
	"Ferris Bueller", "Forrest Gump", "Rocky Balboa", "Ace Ventura", "Austin Powers",
	"Buzz Lightyear", "Woody", "Shrek", "Donkey", "Po",
	"Wall-E", "EVE", "Totoro", "Kiki", "Chihiro",
	"Tony Stark", "Bruce Wayne", "Clark Kent", "Diana Prince", "Peter Parker",
	"Natasha Romanoff", "Steve Rogers", "Thor", "Loki", "Groot",
	"Rocket Raccoon", "Wolverine", "Storm", "Deadpool", "Black Panther",
	"Homer Simpson", "Marge Simpson", "Bart Simpson", "Lisa Simpson", "Mr. Burns",
	"Fry", "Leela", "Bender", "Professor Farnsworth", "Rick Sanchez",
	"Morty Smith", "SpongeBob", "Patrick Star", "Squidward", "Scooby-Doo",
	"Shaggy", "Velma", "Daphne", "Fred Jones", "Bugs Bunny",
	"Daffy Duck", "Wile E. Coyote", "Road Runner", "Tom", "Jerry",
	"Walter White", "Jesse Pinkman", "Saul Goodman", "Dale Cooper", "Fox Mulder",
	"Dana Scully", "Eleven", "Dustin Henderson", "Jim Hopper", "Jon Snow",
	"Arya Stark", "Tyrion Lannister", "Daenerys Targaryen", "The Doctor", "Rose Tyler",
	"Buffy Summers", "Michael Scott", "Dwight Schrute", "Leslie Knope", "Ron Swanson",
}
