package topper

// reactor is the Go rendering of one libuv-backed event loop thread from
// original_source/src/server_instance.cc: a single goroutine draining a job
// queue forever. Scheduling a job here is the equivalent of posting a
// callback onto that thread's loop; the goroutine scheduler plus the
// net.Conn netpoller underneath play the role libuv's non-blocking I/O
// played in the original.
type reactor struct {
	jobs chan func()
	done chan struct{}
}

// newReactor starts a reactor's loop goroutine and returns it. backlog
// bounds how many pending jobs may queue before Schedule blocks.
func newReactor(backlog int) *reactor {
	r := &reactor{
		jobs: make(chan func(), backlog),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *reactor) run() {
	for job := range r.jobs {
		job()
	}
	close(r.done)
}

// Schedule posts job onto the reactor's loop. It blocks if the loop is
// busy and the backlog is full, matching the bounded-queue behaviour of a
// single-threaded event loop under load.
func (r *reactor) Schedule(job func()) {
	r.jobs <- job
}

// Stop closes the job queue and waits for the loop goroutine to drain and
// exit.
func (r *reactor) Stop() {
	close(r.jobs)
	<-r.done
}
