package content

// Curated dashboard content. These are display fixtures, not user data; the
// workout/exercise tables exist for the tracking features that will replace
// this.

type MealItem struct {
	Name     string
	Calories int
	Protein  int
	Carbs    int
	Fat      int
}

type MealPlan struct {
	ID          int
	Title       string
	Description string
	Items       []MealItem
}

type WorkoutExercise struct {
	Name string
	Sets int
	Reps string
	Rest string
}

type WorkoutPlan struct {
	ID          int
	Title       string
	Description string
	Exercises   []WorkoutExercise
}

type ProgressPoint struct {
	Date  string
	Value float64
}

func MealPlans() []MealPlan {
	return []MealPlan{
		{
			ID:          1,
			Title:       "Breakfast",
			Description: "Protein-packed breakfast to start your day",
			Items: []MealItem{
				{Name: "Greek Yogurt with Berries", Calories: 240, Protein: 15, Carbs: 30, Fat: 5},
				{Name: "Whole Grain Toast", Calories: 120, Protein: 4, Carbs: 20, Fat: 2},
				{Name: "Scrambled Eggs", Calories: 180, Protein: 12, Carbs: 2, Fat: 12},
			},
		},
		{
			ID:          2,
			Title:       "Lunch",
			Description: "Balanced meal to keep you energized",
			Items: []MealItem{
				{Name: "Grilled Chicken Salad", Calories: 320, Protein: 28, Carbs: 15, Fat: 14},
				{Name: "Quinoa", Calories: 120, Protein: 4, Carbs: 21, Fat: 2},
				{Name: "Avocado", Calories: 160, Protein: 2, Carbs: 8, Fat: 15},
			},
		},
		{
			ID:          3,
			Title:       "Dinner",
			Description: "Nutrient-rich evening meal",
			Items: []MealItem{
				{Name: "Baked Salmon", Calories: 280, Protein: 30, Carbs: 0, Fat: 16},
				{Name: "Steamed Vegetables", Calories: 80, Protein: 2, Carbs: 15, Fat: 1},
				{Name: "Sweet Potato", Calories: 150, Protein: 2, Carbs: 35, Fat: 0},
			},
		},
	}
}

func WorkoutPlans() []WorkoutPlan {
	return []WorkoutPlan{
		{
			ID:          1,
			Title:       "Upper Body Strength",
			Description: "Focus on chest, shoulders, and arms",
			Exercises: []WorkoutExercise{
				{Name: "Push-ups", Sets: 3, Reps: "12-15", Rest: "60 sec"},
				{Name: "Dumbbell Shoulder Press", Sets: 3, Reps: "10-12", Rest: "90 sec"},
				{Name: "Bicep Curls", Sets: 3, Reps: "12 each arm", Rest: "60 sec"},
				{Name: "Tricep Dips", Sets: 3, Reps: "12-15", Rest: "60 sec"},
				{Name: "Chest Flyes", Sets: 3, Reps: "10-12", Rest: "90 sec"},
			},
		},
		{
			ID:          2,
			Title:       "Lower Body Power",
			Description: "Build strength in legs and core",
			Exercises: []WorkoutExercise{
				{Name: "Squats", Sets: 4, Reps: "12-15", Rest: "90 sec"},
				{Name: "Lunges", Sets: 3, Reps: "10 each leg", Rest: "60 sec"},
				{Name: "Deadlifts", Sets: 3, Reps: "10-12", Rest: "120 sec"},
				{Name: "Calf Raises", Sets: 3, Reps: "15-20", Rest: "60 sec"},
				{Name: "Plank", Sets: 3, Reps: "30-60 sec", Rest: "60 sec"},
			},
		},
		{
			ID:          3,
			Title:       "Cardio Blast",
			Description: "Improve endurance and burn calories",
			Exercises: []WorkoutExercise{
				{Name: "Jumping Jacks", Sets: 3, Reps: "30 sec", Rest: "15 sec"},
				{Name: "Mountain Climbers", Sets: 3, Reps: "30 sec", Rest: "15 sec"},
				{Name: "Burpees", Sets: 3, Reps: "10-12", Rest: "30 sec"},
				{Name: "High Knees", Sets: 3, Reps: "30 sec", Rest: "15 sec"},
				{Name: "Jump Rope", Sets: 1, Reps: "5 min", Rest: "N/A"},
			},
		},
	}
}

func WeightProgress() []ProgressPoint {
	return []ProgressPoint{
		{Date: "Jan 1", Value: 185},
		{Date: "Jan 8", Value: 183},
		{Date: "Jan 15", Value: 181},
		{Date: "Jan 22", Value: 180},
		{Date: "Jan 29", Value: 178},
		{Date: "Feb 5", Value: 177},
	}
}

func WorkoutProgress() []ProgressPoint {
	return []ProgressPoint{
		{Date: "Week 1", Value: 3},
		{Date: "Week 2", Value: 4},
		{Date: "Week 3", Value: 3},
		{Date: "Week 4", Value: 5},
		{Date: "Week 5", Value: 4},
		{Date: "Week 6", Value: 5},
	}
}
