package pool

import "github.com/abhisek/certquiz/internal/question"

// defaultQuestions is the built-in bank used until a file is uploaded.
var defaultQuestions = []question.Question{
	{
		ID:            1,
		Prompt:        "Which of the following is NOT a valid variable name in JavaScript?",
		Options:       []string{"myVar", "123var", "_variable", "$price"},
		CorrectAnswer: "123var",
		Explanation:   "Variable names in JavaScript cannot start with a number. They must begin with a letter, underscore (_), or dollar sign ($).",
	},
	{
		ID:            2,
		Prompt:        "What is the time complexity of searching for an element in a balanced binary search tree?",
		Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n log n)"},
		CorrectAnswer: "O(log n)",
		Explanation:   "In a balanced binary search tree, each comparison eliminates roughly half of the remaining elements, resulting in a logarithmic time complexity.",
	},
	{
		ID:            3,
		Prompt:        "Which HTTP status code indicates that the requested resource was not found?",
		Options:       []string{"200", "301", "404", "500"},
		CorrectAnswer: "404",
		Explanation:   "404 Not Found means the server could not find the requested resource.",
	},
	{
		ID:            4,
		Prompt:        "Which layer of the OSI model is responsible for routing packets between networks?",
		Options:       []string{"Data Link", "Network", "Transport", "Session"},
		CorrectAnswer: "Network",
		Explanation:   "The Network layer (layer 3) handles logical addressing and routing.",
	},
	{
		ID:            5,
		Prompt:        "Which git command creates a new commit that undoes the changes of an earlier commit?",
		Options:       []string{"git reset", "git revert", "git checkout", "git stash"},
		CorrectAnswer: "git revert",
		Explanation:   "git revert records a new commit with the inverse changes, leaving history intact.",
	},
	{
		ID:            6,
		Prompt:        "Which SQL clause filters groups produced by GROUP BY?",
		Options:       []string{"WHERE", "HAVING", "ORDER BY", "LIMIT"},
		CorrectAnswer: "HAVING",
		Explanation:   "WHERE filters rows before grouping; HAVING filters the aggregated groups.",
	},
	{
		ID:            7,
		Prompt:        "What does the CAP theorem say a distributed store cannot guarantee at the same time during a partition?",
		Options:       []string{"Consistency and availability", "Latency and throughput", "Durability and isolation", "Scalability and security"},
		CorrectAnswer: "Consistency and availability",
		Explanation:   "When a network partition occurs a system must choose between consistency and availability.",
	},
	{
		ID:            8,
		Prompt:        "Which data structure gives O(1) average lookup by key?",
		Options:       []string{"Linked list", "Hash table", "Binary heap", "Sorted array"},
		CorrectAnswer: "Hash table",
		Explanation:   "Hash tables map keys to buckets directly, giving constant average-time lookups.",
	},
	{
		ID:            9,
		Prompt:        "Which port does HTTPS use by default?",
		Options:       []string{"21", "80", "443", "8080"},
		CorrectAnswer: "443",
		Explanation:   "HTTPS is served on TCP port 443 unless configured otherwise.",
	},
	{
		ID:            10,
		Prompt:        "In public-key cryptography, which key is used to verify a digital signature?",
		Options:       []string{"The signer's private key", "The signer's public key", "A shared session key", "The verifier's private key"},
		CorrectAnswer: "The signer's public key",
		Explanation:   "Signatures are created with the private key and verified with the matching public key.",
	},
}
